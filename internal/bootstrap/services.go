package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Killzin1000/quality-estetica2/config"
	redisadapter "github.com/Killzin1000/quality-estetica2/internal/adapters/redis"
	"github.com/Killzin1000/quality-estetica2/internal/data"
	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	"github.com/Killzin1000/quality-estetica2/internal/observability/metrics"
	"github.com/Killzin1000/quality-estetica2/internal/service"
	"github.com/Killzin1000/quality-estetica2/internal/session"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth         *service.AuthService
	Profiles     *service.ProfileService
	Registry     *session.Registry
	Patients     *service.PatientService
	Payments     *service.PaymentService
	Stock        *service.StockService
	Financial    *service.FinancialService
	Dashboard    *service.DashboardService
	Calendar     *service.CalendarService
	SkinAnalysis *service.SkinAnalysisService
	AdminUsers   *service.AdminUserService
	Events       *redisadapter.EventBus
	Metrics      *metrics.Metrics
	Location     *time.Location
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	Now         func() time.Time
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Patients     *data.PatientRepo
	Clinical     *data.ClinicalRepo
	Payments     *data.PaymentRepo
	Products     *data.ProductRepo
	Financial    *data.FinancialRepo
	Appointments *data.AppointmentRepo
	Settings     *data.SettingsRepo
	Profiles     *data.ProfileRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		Patients:     data.NewPatientRepo(db),
		Clinical:     data.NewClinicalRepo(db),
		Payments:     data.NewPaymentRepo(db),
		Products:     data.NewProductRepo(db),
		Financial:    data.NewFinancialRepo(db),
		Appointments: data.NewAppointmentRepo(db),
		Settings:     data.NewSettingsRepo(db),
		Profiles:     data.NewProfileRepo(db),
	}
}

func stockPolicy(cfg config.ClinicConfig) model.StockAlertPolicy {
	return model.StockAlertPolicy{
		LowStockThreshold: cfg.LowStockThreshold,
		ExpiryWindow:      cfg.ExpiryWindow(),
	}
}

func newAnamnesisSummarizer(cfg config.ClinicConfig) (*service.AnamnesisSummarizer, error) {
	fields, err := service.ParseAnamnesisFields(cfg.AnamnesisSummary)
	if err != nil {
		return nil, err
	}
	return service.NewAnamnesisSummarizer(fields)
}

// NewServices wires repositories, the Redis adapters and every domain service.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.DB == nil || deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("services require a database and a redis client")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Clinic.Location()
	policy := stockPolicy(cfg.Clinic)

	repos := buildRepositories(deps.DB)
	events := redisadapter.NewEventBus(deps.RedisClient, cfg.Redis.EventsChannel, logger)
	profileCache := redisadapter.NewProfileCache(deps.RedisClient, cfg.Redis.ProfileCacheTTL)

	var registry *session.Registry
	var m *metrics.Metrics
	if cfg.Observability.MetricsEnabled {
		m = metrics.New(metrics.Options{
			LiveStores:        func() int { return registry.Len() },
			RuntimeCollectors: cfg.Observability.RuntimeMetrics,
		})
	}

	profiles := service.NewProfileService(service.ProfileServiceOptions{
		Repo:   repos.Profiles,
		Cache:  profileCache,
		Logger: logger,
	})

	summarizer, err := newAnamnesisSummarizer(cfg.Clinic)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("anamnesis summary: %w", err)
	}

	c := ServiceContainer{
		Profiles: profiles,
		Events:   events,
		Metrics:  m,
		Location: loc,
		Patients: service.NewPatientService(service.PatientServiceOptions{
			Patients:   repos.Patients,
			Clinical:   repos.Clinical,
			Payments:   repos.Payments,
			Summarizer: summarizer,
			Logger:     logger,
			Now:        now,
		}),
		Payments: service.NewPaymentService(service.PaymentServiceOptions{
			Payments: repos.Payments,
			Patients: repos.Patients,
			Products: repos.Products,
			Logger:   logger,
			Now:      now,
		}),
		Stock: service.NewStockService(service.StockServiceOptions{
			Products: repos.Products,
			Policy:   policy,
			Logger:   logger,
			Now:      now,
		}),
		Financial: service.NewFinancialService(service.FinancialServiceOptions{
			Records:  repos.Financial,
			Payments: repos.Payments,
			Logger:   logger,
		}),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{
			Payments:     repos.Payments,
			Appointments: repos.Appointments,
			Patients:     repos.Patients,
			Products:     repos.Products,
			Policy:       policy,
			Location:     loc,
			Logger:       logger,
			Now:          now,
		}),
		Calendar: service.NewCalendarService(service.CalendarServiceOptions{
			Appointments: repos.Appointments,
			Patients:     repos.Patients,
			Settings:     repos.Settings,
			Location:     loc,
			Logger:       logger,
			Now:          now,
		}),
		SkinAnalysis: service.NewSkinAnalysisService(repos.Clinical, repos.Patients),
		AdminUsers: service.NewAdminUserService(service.AdminUserServiceOptions{
			Repo:   repos.Profiles,
			Cache:  profileCache,
			Events: events,
			Logger: logger,
			Now:    now,
		}),
	}

	c.Auth, err = BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		IsDev:       cfg.IsDev,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Profiles:    repos.Profiles,
		Events:      events,
		Observer:    m,
		Logger:      logger,
		Now:         now,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	registry = session.NewRegistry(session.RegistryOptions{
		Source:       c.Auth,
		Profiles:     profiles,
		Events:       events,
		Observer:     m,
		IdleTTL:      cfg.Auth.SessionIdleEvict,
		FetchTimeout: cfg.Auth.ProfileFetchTimeout,
		Logger:       logger,
		Now:          now,
	})

	c.Registry = registry

	return c, nil
}
