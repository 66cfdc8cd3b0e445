package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrsinham/dicomview/cmd/dicomview/tui"
	"github.com/mrsinham/dicomview/internal/dicom"
	"github.com/mrsinham/dicomview/internal/dicom/synth"
	"github.com/mrsinham/dicomview/internal/prefs"
	"github.com/mrsinham/dicomview/internal/render"
	"github.com/mrsinham/dicomview/internal/util"
	"github.com/mrsinham/dicomview/internal/viewer"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Check for gen-sample subcommand (before flag.Parse)
	if len(os.Args) > 1 && os.Args[1] == "gen-sample" {
		if err := runGenSample(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Define command-line flags
	exportPath := flag.String("export", "", "Render the file to an image at this path instead of opening the viewer")
	describe := flag.Bool("describe", false, "Print metadata and validation results instead of opening the viewer")
	listDir := flag.String("list", "", "List the DICOM files inside a directory and exit")

	// Windowing options
	presetName := flag.String("preset", "", "Apply a windowing preset: brain, bone, lung, abdomen")
	window := flag.Int("window", 0, "Window width to apply (0 = keep the file's own window)")
	level := flag.Int("level", 0, "Window level to apply (used together with --window)")
	autoWindow := flag.Bool("auto", false, "Estimate window and level from the pixel distribution")

	// Validation options
	onMissing := flag.String("on-missing", "abort", "Headless policy for missing required attributes: abort, continue")
	var provided []string
	flag.Func("provide", "Supply a missing attribute: 'Name=Value' (repeatable, implies continuing)", func(s string) error {
		provided = append(provided, s)
		return nil
	})

	// Export options
	noOverlay := flag.Bool("no-overlay", false, "Export the bare image without the metadata overlay")

	prefsPath := flag.String("prefs", "", "Preferences file (default: per-user config directory)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	logFile := flag.String("log-file", "", "Append logs to this file instead of stderr")

	help := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	// Show version
	if *showVersion {
		fmt.Printf("dicomview %s\n", version)
		os.Exit(0)
	}

	// Show help
	if *help {
		printHelp()
		os.Exit(0)
	}

	headless := *exportPath != "" || *describe || *listDir != ""

	logger, closeLog, err := buildLogger(*verbose, *logFile, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	preferences, err := loadPreferences(*prefsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		preferences = prefs.Default()
	}

	// Directory listing does not need a loaded file
	if *listDir != "" {
		if err := runList(*listDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	filePath := flag.Arg(0)

	if headless {
		if filePath == "" {
			fmt.Fprintf(os.Stderr, "Error: a DICOM file argument is required\n")
			printUsage()
			os.Exit(1)
		}

		providedValues, err := parseProvided(provided)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		handler, err := headlessHandler(*onMissing, providedValues)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		v := viewer.New(dicom.NewLoader(logger), nil, handler, logger)
		if err := v.LoadFile(filePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		applyWindowing(v, *presetName, *window, *level, *autoWindow)

		if *describe {
			printDescription(v)
		}
		if *exportPath != "" {
			if err := runExport(v, *exportPath, preferences, *noOverlay); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Exported %s\n", *exportPath)
		}
		os.Exit(0)
	}

	// Interactive viewer
	err = tui.Run(tui.Options{
		InitialFile: filePath,
		Preferences: preferences,
		PrefsPath:   resolvedPrefsPath(*prefsPath),
		Logger:      logger,
		Preset:      *presetName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runGenSample writes a synthetic DICOM file for demos and tests.
func runGenSample(args []string) error {
	fs := flag.NewFlagSet("gen-sample", flag.ExitOnError)
	output := fs.String("output", "sample.dcm", "Output file path")
	rows := fs.Int("rows", 256, "Image height in pixels")
	cols := fs.Int("cols", 256, "Image width in pixels")
	bits := fs.Int("bits", 16, "Bits stored (8-16)")
	value := fs.Int("value", -1, "Uniform pixel value (negative = gradient test pattern)")
	seed := fs.Uint64("seed", 42, "Seed for the test pattern")
	patientName := fs.String("patient-name", "", "PatientName value")
	patientID := fs.String("patient-id", "", "PatientID value")
	modality := fs.String("modality", "", "Modality value")
	studyDate := fs.String("study-date", "", "StudyDate value")
	windowCenter := fs.String("window-center", "", "Embedded WindowCenter (DS string)")
	windowWidth := fs.String("window-width", "", "Embedded WindowWidth (DS string)")
	random := fs.Bool("random", false, "Randomize the patient identity from the seed")
	var omit []string
	fs.Func("omit", "Omit an attribute, e.g. 'PatientID' or 'PixelData' (repeatable)", func(s string) error {
		omit = append(omit, s)
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := synth.Options{
		Rows:         *rows,
		Cols:         *cols,
		BitsStored:   *bits,
		Value:        *value,
		Seed:         *seed,
		PatientName:  *patientName,
		PatientID:    *patientID,
		Modality:     *modality,
		StudyDate:    *studyDate,
		WindowCenter: *windowCenter,
		WindowWidth:  *windowWidth,
		Omit:         omit,
	}
	if *random {
		rng := rand.New(rand.NewPCG(*seed, *seed))
		sex := "F"
		if rng.IntN(2) == 0 {
			sex = "M"
		}
		if opts.PatientName == "" {
			opts.PatientName = util.GeneratePatientName(sex, rng)
		}
		if opts.PatientID == "" {
			opts.PatientID = util.GeneratePatientID(rng)
		}
	}
	if err := synth.WriteFile(*output, opts); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", *output)
	return nil
}

func runList(dir string) error {
	files, err := dicom.ScanDirectory(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Println(f)
	}
	fmt.Printf("%d DICOM file(s) in %s\n", len(files), dir)
	return nil
}

// parseProvided turns repeated Name=Value flags into a value map.
func parseProvided(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --provide %q, expected 'Name=Value'", pair)
		}
		values[strings.TrimSpace(name)] = value
	}
	return values, nil
}

// headlessHandler builds the decision policy for non-interactive runs.
func headlessHandler(onMissing string, provided map[string]string) (viewer.DecisionHandler, error) {
	if len(provided) > 0 {
		return viewer.DecisionFunc(func(string, []string) viewer.Resolution {
			return viewer.Resolution{Decision: viewer.Provide, Values: provided}
		}), nil
	}
	switch onMissing {
	case "abort":
		return viewer.DecisionFunc(func(string, []string) viewer.Resolution {
			return viewer.Resolution{Decision: viewer.Abort}
		}), nil
	case "continue":
		return viewer.DecisionFunc(func(string, []string) viewer.Resolution {
			return viewer.Resolution{Decision: viewer.Continue}
		}), nil
	default:
		return nil, fmt.Errorf("invalid --on-missing %q, valid options: abort, continue", onMissing)
	}
}

func applyWindowing(v *viewer.Viewer, preset string, window, level int, auto bool) {
	if preset != "" {
		if !v.ApplyPreset(preset) {
			fmt.Fprintf(os.Stderr, "Warning: unknown preset %q\n", preset)
		}
	}
	if window > 0 {
		v.SetWindowLevel(window, level)
	}
	if auto {
		v.AutoWindow()
	}
}

func printDescription(v *viewer.Viewer) {
	fmt.Println(v.Path())
	for _, item := range v.Metadata() {
		fmt.Printf("  %-18s %s\n", item.Name+":", item.Value)
	}
	state := v.State()
	fmt.Printf("  %-18s %d\n", "Window:", state.Window)
	fmt.Printf("  %-18s %d\n", "Level:", state.Level)
	if validation := v.Validation(); !validation.Valid {
		fmt.Printf("  Missing required: %s\n", strings.Join(validation.Missing, ", "))
	}
}

func runExport(v *viewer.Viewer, path string, preferences prefs.Preferences, noOverlay bool) error {
	display, rows, cols := v.Display()
	if display == nil {
		return fmt.Errorf("nothing to export")
	}

	img, err := render.GrayImage(append([]uint8(nil), display...), rows, cols)
	if err != nil {
		return err
	}

	format := preferences.ExportFormat
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	}

	if noOverlay {
		return render.ExportFile(path, img, format, preferences.JPEGQuality)
	}

	state := v.State()
	lines := []string{fmt.Sprintf("W:%d L:%d", state.Window, state.Level)}
	for _, item := range v.Metadata() {
		lines = append(lines, fmt.Sprintf("%s: %s", item.Name, item.Value))
	}
	return render.ExportFile(path, render.Annotate(img, lines), format, preferences.JPEGQuality)
}

func loadPreferences(path string) (prefs.Preferences, error) {
	resolved := resolvedPrefsPath(path)
	if resolved == "" {
		return prefs.Default(), nil
	}
	return prefs.Load(resolved)
}

// resolvedPrefsPath picks the explicit path or the per-user default. An
// empty result means preferences cannot be persisted this session.
func resolvedPrefsPath(path string) string {
	if path != "" {
		return path
	}
	defaultPath, err := prefs.DefaultPath()
	if err != nil {
		return ""
	}
	return defaultPath
}

// buildLogger routes logs away from the terminal the viewer draws on:
// interactive runs log nowhere unless a log file is given.
func buildLogger(verbose bool, logFile string, headless bool) (zerolog.Logger, func(), error) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), func() {}, fmt.Errorf("open log file: %w", err)
		}
		logger := zerolog.New(f).With().Timestamp().Logger().Level(level)
		return logger, func() { _ = f.Close() }, nil
	}

	if !headless {
		return zerolog.Nop(), func() {}, nil
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	logger := zerolog.New(writer).With().Timestamp().Logger().Level(level)
	return logger, func() {}, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  dicomview [options] [FILE]")
	fmt.Fprintln(os.Stderr, "  dicomview gen-sample [options]")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

func printHelp() {
	fmt.Println("dicomview")
	fmt.Println("=========")
	fmt.Println()
	fmt.Println("View DICOM images in the terminal with interactive intensity windowing.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dicomview [options] [FILE]")
	fmt.Println("  dicomview gen-sample [options]")
	fmt.Println()
	fmt.Println("Without --export or --describe, dicomview opens the interactive viewer.")
	fmt.Println("With a FILE argument it is displayed immediately; without one the open")
	fmt.Println("dialog starts in the preferred DICOM directory.")
	fmt.Println()
	fmt.Println("Windowing options:")
	fmt.Println("  --preset <NAME>       Apply a preset: brain, bone, lung, abdomen")
	fmt.Println("  --window <N>          Window width to apply (with --level)")
	fmt.Println("  --level <N>           Window level to apply")
	fmt.Println("  --auto                Estimate window/level from the pixel distribution")
	fmt.Println()
	fmt.Println("Headless modes:")
	fmt.Println("  --describe            Print metadata, validation and windowing, then exit")
	fmt.Println("  --export <PATH>       Render to PNG or JPEG (format follows the extension)")
	fmt.Println("  --no-overlay          Export without the burned-in metadata overlay")
	fmt.Println("  --list <DIR>          List the DICOM files inside a directory")
	fmt.Println()
	fmt.Println("Validation options:")
	fmt.Println("  --on-missing <POLICY> abort (default) or continue when required")
	fmt.Println("                        attributes are missing")
	fmt.Println("  --provide <N=V>       Supply a missing attribute value (repeatable)")
	fmt.Println()
	fmt.Println("Other options:")
	fmt.Println("  --prefs <PATH>        Preferences file (default: per-user config dir)")
	fmt.Println("  --log-file <PATH>     Append logs to a file")
	fmt.Println("  --verbose             Debug logging")
	fmt.Println("  --version             Show version")
	fmt.Println("  --help                Show this help message")
	fmt.Println()
	fmt.Println("Keys inside the viewer:")
	fmt.Println("  left/right            Narrow/widen the window")
	fmt.Println("  up/down               Raise/lower the level")
	fmt.Println("  b n u m               Presets: brain, bone, lung, abdomen")
	fmt.Println("  a                     Auto window")
	fmt.Println("  e                     Export the current view")
	fmt.Println("  o                     Open another file")
	fmt.Println("  ?                     Toggle help")
	fmt.Println("  q                     Quit")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Open a file in the interactive viewer")
	fmt.Println("  dicomview study.dcm")
	fmt.Println()
	fmt.Println("  # Inspect metadata without opening the viewer")
	fmt.Println("  dicomview --describe study.dcm")
	fmt.Println()
	fmt.Println("  # Export with the bone preset")
	fmt.Println("  dicomview --export bone.png --preset bone study.dcm")
	fmt.Println()
	fmt.Println("  # View a file with a missing PatientID anyway")
	fmt.Println("  dicomview --export out.png --on-missing continue study.dcm")
	fmt.Println()
	fmt.Println("  # Fill in missing attributes on the fly")
	fmt.Println("  dicomview --export out.png --provide 'PatientID=ANON01' study.dcm")
	fmt.Println()
	fmt.Println("  # Generate a synthetic sample to play with")
	fmt.Println("  dicomview gen-sample --output sample.dcm --rows 128 --cols 128")
	fmt.Println()
	fmt.Println("  # Same, with a randomized patient identity")
	fmt.Println("  dicomview gen-sample --output sample.dcm --random --seed 7")
}
