package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pdtrack/internal/bootstrap"
	profiledto "pdtrack/internal/modules/profile/dto"
	"pdtrack/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "pdtrack",
		Short:         "Parkinson tracking terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.pdtrack)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newLoginCmd(&dataDir))
	root.AddCommand(newRegisterCmd(&dataDir))
	root.AddCommand(newLogoutCmd(&dataDir))
	root.AddCommand(newWhoamiCmd(&dataDir))
	root.AddCommand(newProfileCmd(&dataDir))
	root.AddCommand(newDeviceCmd(&dataDir))
	root.AddCommand(newTremorCmd(&dataDir))
	root.AddCommand(newMedCmd(&dataDir))
	root.AddCommand(newProgressCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the pdtrack terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newLoginCmd(dataDir *string) *cobra.Command {
	var email, password string
	login := &cobra.Command{
		Use:   "login --email <email> --password <password>",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Login(context.Background(), email, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as user %s\n", out.UserID)
			return nil
		},
	}
	login.Flags().StringVar(&email, "email", "", "account email")
	login.Flags().StringVar(&password, "password", "", "account password")
	return login
}

func newRegisterCmd(dataDir *string) *cobra.Command {
	var name, email, password, medications string
	var age int
	register := &cobra.Command{
		Use:   "register --name <name> --email <email> --password <password>",
		Short: "Create an account (log in separately afterwards)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.Register(context.Background(), name, email, password, age, medications); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "account created; run `pdtrack login` to sign in")
			return nil
		},
	}
	register.Flags().StringVar(&name, "name", "", "full name")
	register.Flags().StringVar(&email, "email", "", "account email")
	register.Flags().StringVar(&password, "password", "", "account password")
	register.Flags().IntVar(&age, "age", 0, "age in years")
	register.Flags().StringVar(&medications, "medications", "", "comma-separated medication names")
	return register
}

func newLogoutCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.Logout(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out := app.SessionCLI.Whoami(context.Background())
			if !out.Authenticated {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as user %s\n", out.UserID)
			return nil
		},
	}
}

func newProfileCmd(dataDir *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Profile operations"}

	profile.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Fetch and display the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			p, err := app.ProfileCLI.Show(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "name: %s\nemail: %s\nage: %d\nmedications: %s\n",
				p.Name, p.Email, p.Age, strings.Join(p.Medications, ", "))
			return nil
		},
	})

	var name, email, medications, password string
	var age int
	update := &cobra.Command{
		Use:   "update --name <name> --email <email> --age <age>",
		Short: "Update the profile (server state is refetched before reporting)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			input := profiledto.UpdateInput{
				Name:     name,
				Email:    email,
				Age:      age,
				Password: password,
			}
			if strings.TrimSpace(medications) != "" {
				for _, m := range strings.Split(medications, ",") {
					if trimmed := strings.TrimSpace(m); trimmed != "" {
						input.Medications = append(input.Medications, trimmed)
					}
				}
			}
			p, err := app.ProfileCLI.Update(context.Background(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "profile updated: %s <%s>\n", p.Name, p.Email)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "full name")
	update.Flags().StringVar(&email, "email", "", "account email")
	update.Flags().IntVar(&age, "age", 0, "age in years")
	update.Flags().StringVar(&medications, "medications", "", "comma-separated medication names")
	update.Flags().StringVar(&password, "password", "", "new password (omit to keep the current one)")
	profile.AddCommand(update)
	return profile
}

func newDeviceCmd(dataDir *string) *cobra.Command {
	device := &cobra.Command{Use: "device", Short: "Device operations"}

	device.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			devices, err := app.DevicesCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no devices")
				return nil
			}
			for _, d := range devices {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Type, d.Status)
			}
			return nil
		},
	})

	device.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show device details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			d, err := app.DevicesCLI.Show(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nname: %s\ntype: %s\nstatus: %s\n", d.ID, d.Name, d.Type, d.Status)
			if !d.LastConnectedAt.IsZero() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "last connected: %s\n", d.LastConnectedAt.Format(time.RFC3339))
			}
			if d.MACAddress != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mac: %s\n", d.MACAddress)
			}
			return nil
		},
	})

	var addName, addType string
	add := &cobra.Command{
		Use:   "add --name <name>",
		Short: "Register a new device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			devices, err := app.DevicesCLI.Add(context.Background(), addName, addType)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "device added; %d registered\n", len(devices))
			return nil
		},
	}
	add.Flags().StringVar(&addName, "name", "", "device name")
	add.Flags().StringVar(&addType, "type", "", "device type")
	device.AddCommand(add)

	var updName, updType string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a device (only the given fields change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if _, err := app.DevicesCLI.Update(context.Background(), args[0], updName, updType); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "device updated")
			return nil
		},
	}
	update.Flags().StringVar(&updName, "name", "", "new device name")
	update.Flags().StringVar(&updType, "type", "", "new device type")
	device.AddCommand(update)

	device.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if _, err := app.DevicesCLI.Remove(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "device removed")
			return nil
		},
	})

	return device
}

func newTremorCmd(dataDir *string) *cobra.Command {
	tremor := &cobra.Command{Use: "tremor", Short: "Tremor recording and history"}

	tremor.AddCommand(&cobra.Command{
		Use:   "record",
		Short: "Record one tremor sample and show the shake rate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.TrackingCLI.Record(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "shake/min: %.2f\n", out.ShakePerMinute)
			return nil
		},
	})

	var day string
	history := &cobra.Command{
		Use:   "history",
		Short: "Show the day's shake-by-minute history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			points, err := app.TrackingCLI.History(context.Background(), day)
			if err != nil {
				return err
			}
			if len(points) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no readings")
				return nil
			}
			for _, p := range points {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\n", p.Bucket, p.Value)
			}
			return nil
		},
	}
	history.Flags().StringVar(&day, "day", "", "day to query, YYYY-MM-DD (default today)")
	tremor.AddCommand(history)
	return tremor
}

func newMedCmd(dataDir *string) *cobra.Command {
	med := &cobra.Command{Use: "med", Short: "Medication log and response"}

	med.AddCommand(&cobra.Command{
		Use:   "log",
		Short: "Log a medication intake now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.TrackingCLI.LogMedication(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "medication logged")
			return nil
		},
	})

	med.AddCommand(&cobra.Command{
		Use:   "response",
		Short: "Show medication effectiveness computed by the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			responses, err := app.TrackingCLI.MedicationResponses(context.Background())
			if err != nil {
				return err
			}
			if len(responses) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no medication responses yet")
				return nil
			}
			for _, r := range responses {
				marker := "not effective"
				if r.Effective {
					marker = "effective"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tbefore=%.2f after=%.2f delta=%+.2f\t%s\n",
					r.MedTime.Format("2006-01-02 15:04"), r.BeforeAvg, r.AfterAvg, r.Delta, marker)
			}
			return nil
		},
	})
	return med
}

func newProgressCmd(dataDir *string) *cobra.Command {
	progress := &cobra.Command{Use: "progress", Short: "Progress model operations"}

	progress.AddCommand(&cobra.Command{
		Use:   "train",
		Short: "Trigger server-side model training",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.TrackingCLI.Train(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "training started; fetch the prediction again later")
			return nil
		},
	})

	progress.AddCommand(&cobra.Command{
		Use:   "predict",
		Short: "Fetch the latest progress prediction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			p, err := app.TrackingCLI.Predict(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (p=%.2f)\n", p.Date, p.Prediction, p.ProbabilityBetter)
			return nil
		},
	})
	return progress
}
