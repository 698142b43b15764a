package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"sigviz/pkg/build"
)

// Options carries everything main needs to run: the selected command
// plus the flag values that override the loaded configuration.
type Options struct {
	Command    string // "", "list", "techniques", "analyze", "tuner"
	ConfigPath string
	Verbose    bool

	// analyze
	InputFile string
	Technique string
	AsJSON    bool

	// tuner / capture overrides
	DeviceID   int
	SampleRate int
	Instrument string
	Record     bool
	OutputFile string
}

func ParseArgs() (*Options, error) {
	buildInfo := build.GetBuildFlags()
	options := &Options{DeviceID: -1}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "list"
		},
	}
	rootCmd.AddCommand(listCmd)

	techniquesCmd := &cobra.Command{
		Use:   "techniques",
		Short: "List available analysis techniques and their options",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "techniques"
		},
	}
	rootCmd.AddCommand(techniquesCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Run one analysis technique over a WAV file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "analyze"
			options.InputFile = args[0]
		},
	}
	analyzeCmd.Flags().StringVarP(&options.Technique, "technique", "t", "fourier",
		"Analysis technique to run. Use 'techniques' to list them.")
	analyzeCmd.Flags().BoolVarP(&options.AsJSON, "json", "j", false,
		"Emit the full result as JSON instead of a summary")
	rootCmd.AddCommand(analyzeCmd)

	tunerCmd := &cobra.Command{
		Use:   "tuner",
		Short: "Run the live instrument tuner on a capture device",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "tuner"
		},
	}
	tunerCmd.Flags().StringVarP(&options.Instrument, "instrument", "i", "",
		"Instrument tuning table (guitar, violin, cretan lute, piano)")
	tunerCmd.Flags().BoolVarP(&options.Record, "record", "r", false,
		"Record the captured audio to a WAV file")
	tunerCmd.Flags().StringVarP(&options.OutputFile, "output", "o", "",
		"Recording file name. Default is recording-MM-DD-YYYY-HHMMSS.wav")
	rootCmd.AddCommand(tunerCmd)

	rootCmd.PersistentFlags().StringVar(&options.ConfigPath, "config", "",
		"Path to a YAML configuration file")
	rootCmd.PersistentFlags().IntVarP(&options.DeviceID, "device", "d", -1,
		"Input device ID. Use 'list' to see available devices.")
	rootCmd.PersistentFlags().IntVarP(&options.SampleRate, "sample-rate", "s", 0,
		"Sample rate in Hz (0 uses the configured value)")
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", false,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return options, nil
}
