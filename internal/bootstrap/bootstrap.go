package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/libraryhub/internal/app/controllers"
	appRoutes "github.com/yigit/libraryhub/internal/app/routes"
	appServices "github.com/yigit/libraryhub/internal/app/services"
	"github.com/yigit/libraryhub/internal/config"
	"github.com/yigit/libraryhub/internal/db"
	appMiddleware "github.com/yigit/libraryhub/internal/middleware"
	"github.com/yigit/libraryhub/internal/mockapi"
	"github.com/yigit/libraryhub/internal/pkg/apiclient"
	pkgAuth "github.com/yigit/libraryhub/internal/pkg/auth"
	"github.com/yigit/libraryhub/internal/pkg/email"
	"github.com/yigit/libraryhub/internal/pkg/filestorage"
	"github.com/yigit/libraryhub/internal/pkg/helpers"
	"github.com/yigit/libraryhub/internal/pkg/logger"
	"github.com/yigit/libraryhub/internal/seed"
	"github.com/yigit/libraryhub/internal/session"
)

// DefaultConfigPath is used when no --config flag is given
const DefaultConfigPath = "configs/config.yaml"

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Debug().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ClientDependencies holds everything a front end (the CLI, tests) needs to
// talk to the library API
type ClientDependencies struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Session  *session.Store
	Watcher  *session.Watcher
	Client   *apiclient.Client
	Services *appServices.Services
	Guard    *appRoutes.Guard
	Notifier appControllers.Notifier

	closers []func()
}

// BuildClient wires the session store, the request executor and the services.
// The persisted session is restored before returning. nav may be nil.
func BuildClient(ctx context.Context, cfg *config.Config, lgr zerolog.Logger, nav session.Navigator, notifier appControllers.Notifier) (*ClientDependencies, error) {
	deps := &ClientDependencies{Config: cfg, Logger: lgr}

	repo, err := deps.openSessionRepository(ctx)
	if err != nil {
		return nil, err
	}

	defaults := session.Preferences{Theme: cfg.Preferences.Theme, Locale: cfg.Preferences.Locale}
	deps.Session = session.NewStore(repo, defaults, lgr.With().Str("component", "session").Logger())
	if err := deps.Session.Restore(ctx); err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	deps.Watcher = session.NewWatcher(deps.Session, nav, lgr)

	deps.Client, err = apiclient.New(apiclient.Options{
		BaseURL:        cfg.BaseURL(),
		Timeout:        cfg.RequestTimeout(),
		Tokens:         deps.Session,
		OnUnauthorized: deps.Watcher,
		Locale:         deps.Session,
		Logger:         lgr.With().Str("component", "apiclient").Logger(),
	})
	if err != nil {
		deps.Close()
		return nil, err
	}

	deps.Services = appServices.New(deps.Client, lgr)
	deps.Guard = appRoutes.NewGuard(deps.Session, lgr)
	if notifier == nil {
		notifier = appControllers.LogNotifier{Logger: lgr}
	}
	deps.Notifier = notifier

	lgr.Debug().Str("baseUrl", cfg.BaseURL()).Str("sessionDriver", cfg.Session.Driver).Msg("Client dependencies built")
	return deps, nil
}

func (d *ClientDependencies) openSessionRepository(ctx context.Context) (session.Repository, error) {
	switch d.Config.Session.Driver {
	case config.SessionDriverMemory:
		return session.NewMemoryRepository(), nil
	case config.SessionDriverPostgres:
		pg, err := db.NewPostgresDB(ctx, d.Config.Session.PostgresDSN, d.Config.Session.MaxConns)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, pg.Close)
		repo, err := session.NewPostgresRepository(ctx, pg.Pool, d.Config.Session.Profile)
		if err != nil {
			pg.Close()
			return nil, err
		}
		return repo, nil
	default:
		return session.NewFileRepository(d.Config.Session.FilePath, d.Logger.With().Str("component", "session").Logger())
	}
}

// Close releases the session backend
func (d *ClientDependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// AuthController builds the login/register/logout controller
func (d *ClientDependencies) AuthController() *appControllers.AuthController {
	return appControllers.NewAuthController(d.Services.Auth, d.Session, d.Notifier, d.Logger)
}

// OTPController builds the verification controller for a pending account
func (d *ClientDependencies) OTPController(userID int64) *appControllers.OTPController {
	auth := d.Services.Auth
	resend := func(ctx context.Context, id int64) error { return auth.ResendOTP(ctx, id) }
	return appControllers.NewOTPController(userID, auth, d.Session, d.Notifier, d.Logger, appControllers.WithResend(resend))
}

// ReviewController builds the review panel of a book
func (d *ClientDependencies) ReviewController(bookID int64) *appControllers.ReviewController {
	return appControllers.NewReviewController(bookID, d.Services.Reviews, d.Session, d.Notifier, d.Logger)
}

// LessonEditor builds the editor; lessonID 0 opens it in create mode
func (d *ClientDependencies) LessonEditor(chapterID, lessonID int64, viewOnly bool) *appControllers.LessonEditor {
	return appControllers.NewLessonEditor(chapterID, lessonID, viewOnly, d.Services.Lessons, d.Services.Resources, d.Logger)
}

// CommentThread builds the comment thread of a lesson
func (d *ClientDependencies) CommentThread(lessonID int64) *appControllers.CommentThread {
	return appControllers.NewCommentThread(lessonID, d.Services.Comments, d.Logger)
}

// MockDependencies holds the development backend
type MockDependencies struct {
	Store          *mockapi.Store
	Handlers       *mockapi.Handlers
	FileStorage    *filestorage.LocalStorage
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// BuildMockDependencies wires the in-memory backend. seedData fills it with
// default accounts and a lesson.
func BuildMockDependencies(cfg *config.Config, lgr zerolog.Logger, seedData bool, onOTP mockapi.OTPSink) (*MockDependencies, error) {
	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	fileStorage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, "/uploads")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	mailer := email.NewSMTPMailer(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr.With().Str("component", "mailer").Logger())

	store := mockapi.NewStore()
	handlers, err := mockapi.NewHandlers(mockapi.Options{
		Store:      store,
		JWT:        jwtService,
		Files:      fileStorage,
		HashKey:    []byte(cfg.Cookie.HashKey),
		BlockKey:   []byte(cfg.Cookie.BlockKey),
		CookiePath: appRoutes.APIBasePath + "/auth",
		OnOTP:      mailOTP(mailer, onOTP, lgr),
		Logger:     lgr.With().Str("component", "mockapi").Logger(),
	})
	if err != nil {
		return nil, err
	}

	if seedData {
		if _, err := seed.CreateDefaultData(store, lgr); err != nil {
			return nil, fmt.Errorf("failed to seed development data: %w", err)
		}
	}

	return &MockDependencies{
		Store:          store,
		Handlers:       handlers,
		FileStorage:    fileStorage,
		JWTService:     jwtService,
		AuthMiddleware: appMiddleware.NewAuthMiddleware(jwtService),
		Logger:         lgr,
	}, nil
}

// mailOTP emails every issued code, then hands it to next when set
func mailOTP(mailer email.OTPMailer, next mockapi.OTPSink, lgr zerolog.Logger) mockapi.OTPSink {
	return func(userID int64, to, code string) {
		if to != "" {
			if err := mailer.SendOTP(to, code, mockapi.OTPTTL); err != nil {
				lgr.Error().Err(err).Int64("userId", userID).Msg("Failed to email verification code")
			}
		}
		if next != nil {
			next(userID, to, code)
		}
	}
}

// SetupMockRouter builds the gin engine of the development backend
func SetupMockRouter(cfg *config.Config, deps *MockDependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(deps.Logger))

	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware)

	// Uploaded binaries are served where SaveFile's URLs point
	router.Static(deps.FileStorage.BaseURL(), deps.FileStorage.BasePath())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
