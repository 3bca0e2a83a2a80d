package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scholarai/scholar/internal/app"
	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/screen"
)

// runApp opens the services, builds the state container and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	svc, err := openServices(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	c, err := svc.container(svc.store.Pages(), nil)
	if err != nil {
		return err
	}
	defer c.Close()

	return app.Run(appstate.WithContainer(ctx, c), app.Options{
		Env: screen.Env{
			Auth:   svc.gateway,
			API:    svc.api,
			Poller: svc.poller(),
			Pages:  svc.store.Pages(),
			Log:    svc.log,
		},
	})
}
