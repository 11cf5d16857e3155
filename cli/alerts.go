// ABOUTME: Alert settings CLI commands
// ABOUTME: Shows, changes and resets the alert mode, audio source and per-context sounds
package cli

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/painel/models"
)

// ShowAlertsCommand prints the current alert settings
func ShowAlertsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("alerts show", flag.ExitOnError)
	_ = fs.Parse(args)

	store, err := app.Preferences()
	if err != nil {
		return err
	}

	mode, err := store.AlertMode()
	if err != nil {
		return err
	}
	source, err := store.AudioSource()
	if err != nil {
		return err
	}
	preferred, ok, err := store.PreferredAudioAsset()
	if err != nil {
		return err
	}
	if !ok {
		preferred = "-"
	}

	fmt.Fprintf(app.Out, "Mode:            %s\n", mode)
	fmt.Fprintf(app.Out, "Audio source:    %s\n", source)
	fmt.Fprintf(app.Out, "Preferred sound: %s\n\n", preferred)

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONTEXT\tSOUND\tLABEL")
	fmt.Fprintln(w, "-------\t-----\t-----")
	for _, c := range models.KnownContexts {
		sound, err := store.SoundForContext(c)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", c, sound, sound.Label())
	}
	w.Flush()

	return nil
}

// SetAlertModeCommand sets the alert mode
func SetAlertModeCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("alerts mode", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("alerts mode requires one of: disabled, on-event, interval")
	}
	mode, err := models.ParseAlertMode(fs.Arg(0))
	if err != nil {
		return err
	}

	store, err := app.Preferences()
	if err != nil {
		return err
	}
	if err := store.SetAlertMode(mode); err != nil {
		return fmt.Errorf("failed to set alert mode: %w", err)
	}

	fmt.Fprintf(app.Out, "✓ Alert mode: %s\n", mode)
	return nil
}

// SetAudioSourceCommand chooses between bundled sounds and the preferred upload
func SetAudioSourceCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("alerts source", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("alerts source requires one of: bundled, user-uploaded")
	}
	source, err := models.ParseAudioSource(fs.Arg(0))
	if err != nil {
		return err
	}

	store, err := app.Preferences()
	if err != nil {
		return err
	}
	if err := store.SetAudioSource(source); err != nil {
		return fmt.Errorf("failed to set audio source: %w", err)
	}

	fmt.Fprintf(app.Out, "✓ Audio source: %s\n", source)
	if source == models.AudioSourceUserUploaded {
		if _, ok, _ := store.PreferredAudioAsset(); !ok {
			fmt.Fprintln(app.Out, "  No preferred upload yet, bundled sounds will play until one is set")
		}
	}
	return nil
}

// SetContextSoundCommand picks the bundled sound for an alert context
func SetContextSoundCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("alerts context", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("alerts context requires <context> <sound>")
	}
	alertCtx := models.AlertContext(fs.Arg(0))
	sound, err := models.ParseSoundType(fs.Arg(1))
	if err != nil {
		return err
	}

	store, err := app.Preferences()
	if err != nil {
		return err
	}
	if err := store.SetSoundForContext(alertCtx, sound); err != nil {
		return fmt.Errorf("failed to set context sound: %w", err)
	}

	fmt.Fprintf(app.Out, "✓ %s plays %s\n", alertCtx, sound.Label())
	return nil
}

// ResetAlertsCommand returns every alert setting to its default and removes uploaded sounds
func ResetAlertsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("alerts reset", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Confirm removing all settings and uploaded sounds")
	_ = fs.Parse(args)

	if !*yes {
		return fmt.Errorf("alerts reset removes every setting and uploaded sound; rerun with --yes")
	}

	store, err := app.Preferences()
	if err != nil {
		return err
	}
	if err := store.Reset(); err != nil {
		return err
	}

	fmt.Fprintln(app.Out, "✓ Alert settings reset (mode disabled, bundled sounds, no uploads)")
	return nil
}
