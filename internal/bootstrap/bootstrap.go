package bootstrap

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	devicesinadapter "pdtrack/internal/modules/devices/adapter/in"
	devicesoutadapter "pdtrack/internal/modules/devices/adapter/out"
	devicesservice "pdtrack/internal/modules/devices/service"
	devicesusecase "pdtrack/internal/modules/devices/usecase"
	profileinadapter "pdtrack/internal/modules/profile/adapter/in"
	profileoutadapter "pdtrack/internal/modules/profile/adapter/out"
	profileservice "pdtrack/internal/modules/profile/service"
	profileusecase "pdtrack/internal/modules/profile/usecase"
	sessioninadapter "pdtrack/internal/modules/session/adapter/in"
	sessionoutadapter "pdtrack/internal/modules/session/adapter/out"
	sessionin "pdtrack/internal/modules/session/port/in"
	sessionservice "pdtrack/internal/modules/session/service"
	sessionusecase "pdtrack/internal/modules/session/usecase"
	trackinginadapter "pdtrack/internal/modules/tracking/adapter/in"
	trackingoutadapter "pdtrack/internal/modules/tracking/adapter/out"
	trackingservice "pdtrack/internal/modules/tracking/service"
	trackingusecase "pdtrack/internal/modules/tracking/usecase"
	"pdtrack/internal/platform/clock"
	"pdtrack/internal/platform/config"
	"pdtrack/internal/platform/id"
	"pdtrack/internal/platform/rest"
	uiapp "pdtrack/internal/ui/app"
)

type App struct {
	SessionCLI  sessioninadapter.CLIHandler
	ProfileCLI  profileinadapter.CLIHandler
	DevicesCLI  devicesinadapter.CLIHandler
	TrackingCLI trackinginadapter.CLIHandler

	session sessionin.Usecase
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}

	store, err := sessionoutadapter.NewSQLiteCredentialStore(cfg.DBPath, cfg.KeyPath)
	if err != nil {
		return nil, err
	}
	sessionSvc := sessionservice.NewSessionService(store)

	// The client reads the token through the session service on every call,
	// so logout and 401-invalidation are visible to the very next request.
	client := rest.NewClient(cfg.BackendURL, cfg.Timeout, sessionSvc, id.UUID{})

	sessionUC := sessionusecase.NewInteractor(sessionSvc, sessionoutadapter.NewRESTAuthGateway(client))
	sessionUC.Restore(context.Background())

	profileUC := profileusecase.NewInteractor(
		profileservice.NewProfileService(profileoutadapter.NewRESTProfileGateway(client)),
	)
	devicesUC := devicesusecase.NewInteractor(
		devicesservice.NewDeviceService(devicesoutadapter.NewRESTDeviceGateway(client)),
		sessionUC,
	)
	trackingUC := trackingusecase.NewInteractor(
		trackingservice.NewTrackingService(
			clk,
			trackingoutadapter.NewRESTTrackingGateway(client),
			trackingoutadapter.NewSyntheticSampleSource(clk.Now().UnixNano()),
		),
		sessionUC,
		profileUC,
	)

	return &App{
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		ProfileCLI:  profileinadapter.NewCLIHandler(profileUC),
		DevicesCLI:  devicesinadapter.NewCLIHandler(devicesUC),
		TrackingCLI: trackinginadapter.NewCLIHandler(trackingUC),
		session:     sessionUC,
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.session, app.ProfileCLI, app.DevicesCLI, app.TrackingCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
