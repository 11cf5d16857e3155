// ABOUTME: Sound CLI commands
// ABOUTME: Lists, uploads, deletes and prefers alert sounds, and plays the test sound
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/harperreed/painel/alert"
	"github.com/harperreed/painel/models"
)

// ListSoundsCommand lists bundled sounds and uploaded assets
func ListSoundsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("sounds list", flag.ExitOnError)
	_ = fs.Parse(args)

	store, err := app.Preferences()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BUNDLED\tLABEL\tFILE")
	fmt.Fprintln(w, "-------\t-----\t----")
	for _, s := range models.AllSoundTypes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s, s.Label(), string(s)+app.Config.Audio.Extension)
	}
	w.Flush()

	assets, err := store.ListAudioAssets()
	if err != nil {
		return fmt.Errorf("failed to list uploads: %w", err)
	}
	fmt.Fprintln(app.Out)
	if len(assets) == 0 {
		fmt.Fprintln(app.Out, "No uploaded sounds")
		return nil
	}

	preferred, _, err := store.PreferredAudioAsset()
	if err != nil {
		return err
	}

	w = tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UPLOADED\tTYPE\tSIZE\tADDED\tPREFERRED")
	fmt.Fprintln(w, "--------\t----\t----\t-----\t---------")
	for _, a := range assets {
		mark := ""
		if a.Name == preferred {
			mark = "★"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.Name,
			a.MIMEType,
			humanize.IBytes(uint64(a.Size)),
			humanize.Time(a.CreatedAt),
			mark,
		)
	}
	w.Flush()

	return nil
}

// UploadSoundCommand stores an audio file as a user sound
func UploadSoundCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("sounds upload", flag.ExitOnError)
	name := fs.String("name", "", "Name to store the sound under (default: file name)")
	prefer := fs.Bool("prefer", false, "Make the upload the preferred sound")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("sounds upload requires a file")
	}
	path := fs.Arg(0)

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	mime, _, _ := strings.Cut(mtype.String(), ";")
	if !strings.HasPrefix(mime, "audio/") {
		return fmt.Errorf("%s is %s, not an audio file", path, mime)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if *name == "" {
		*name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	store, err := app.Preferences()
	if err != nil {
		return err
	}
	asset, err := store.SaveAudioAsset(*name, mime, data)
	if err != nil {
		return fmt.Errorf("failed to store sound: %w", err)
	}

	fmt.Fprintf(app.Out, "✓ Sound uploaded: %s (%s, %s)\n", asset.Name, asset.MIMEType, humanize.IBytes(uint64(asset.Size)))

	if *prefer {
		if err := store.SetPreferredAudioAsset(asset.Name); err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "✓ Preferred sound: %s\n", asset.Name)
	}
	return nil
}

// DeleteSoundCommand removes an uploaded sound
func DeleteSoundCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("sounds delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("sounds delete requires a name")
	}

	store, err := app.Preferences()
	if err != nil {
		return err
	}

	asset, err := store.AudioAsset(fs.Arg(0))
	if err != nil {
		return err
	}
	if asset == nil {
		return fmt.Errorf("no uploaded sound named %q", fs.Arg(0))
	}

	if err := store.DeleteAudioAsset(asset.Name); err != nil {
		return fmt.Errorf("failed to delete sound: %w", err)
	}

	fmt.Fprintf(app.Out, "✓ Sound deleted: %s\n", asset.Name)
	return nil
}

// PreferSoundCommand makes an uploaded sound the one played in user-uploaded mode
func PreferSoundCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("sounds prefer", flag.ExitOnError)
	clearPref := fs.Bool("clear", false, "Clear the preferred sound")
	_ = fs.Parse(args)

	store, err := app.Preferences()
	if err != nil {
		return err
	}

	if *clearPref {
		if err := store.ClearPreferredAudioAsset(); err != nil {
			return err
		}
		fmt.Fprintln(app.Out, "✓ Preferred sound cleared")
		return nil
	}

	if fs.NArg() == 0 {
		return fmt.Errorf("sounds prefer requires a name (or --clear)")
	}
	if err := store.SetPreferredAudioAsset(fs.Arg(0)); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "✓ Preferred sound: %s\n", fs.Arg(0))
	return nil
}

// SoundUsageCommand reports how much of the preference store is in use
func SoundUsageCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("sounds usage", flag.ExitOnError)
	_ = fs.Parse(args)

	store, err := app.Preferences()
	if err != nil {
		return err
	}
	usage, err := store.StorageUsage()
	if err != nil {
		return err
	}
	names, err := store.ListAudioAssetNames()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Storage: %s of ~%s (%.1f%%)\n",
		humanize.IBytes(uint64(usage.UsedBytes)),
		humanize.IBytes(uint64(usage.EstimatedMaxBytes)),
		usage.Percentage,
	)
	fmt.Fprintf(app.Out, "Uploaded sounds: %d\n", len(names))
	return nil
}

// TestSoundCommand plays the test sound with the current settings
func TestSoundCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("sounds test", flag.ExitOnError)
	_ = fs.Parse(args)

	engine, err := app.Alerts()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ev := engine.TestSound(ctx)
	switch ev.Outcome {
	case alert.OutcomeSkipped:
		fmt.Fprintln(app.Out, "Alerts are disabled, nothing was played (set a mode with: painel alerts mode on-event)")
		return nil
	case alert.OutcomeStored:
		fmt.Fprintf(app.Out, "✓ Played upload %s\n", ev.Resource)
	default:
		fmt.Fprintf(app.Out, "✓ Played %s\n", models.SoundType(ev.Resource).Label())
	}

	app.WaitForPlayback()
	return nil
}
