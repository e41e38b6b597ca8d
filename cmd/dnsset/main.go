package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/router-tools/dnsset/internal/browser"
	"github.com/router-tools/dnsset/internal/router"
)

var (
	urlFlag string
	user    string
	pass    string
	dns1    string
	dns2    string
	headful bool
	debug   bool
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "dnsset",
		Short: "Change a router's DNS servers through its web admin UI",
		Long: `dnsset logs in to a consumer router's web administration UI, walks the
menu to the DNS configuration page, writes new DNS server addresses, clicks
apply, and reads the form back to confirm the change.

Every flag can also come from the environment (DNSSET_URL, DNSSET_USER,
DNSSET_PASS, DNSSET_DNS1, DNSSET_DNS2), including via a .env file.

Example:
  dnsset --user admin --pass hunter2 --dns1 1.1.1.1 --dns2 1.0.0.1`,
		Args:          cobra.NoArgs,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&urlFlag, "url", "", "Router admin URL (default http://192.168.1.1)")
	rootCmd.Flags().StringVar(&user, "user", "", "Admin username")
	rootCmd.Flags().StringVar(&pass, "pass", "", "Admin password")
	rootCmd.Flags().StringVar(&dns1, "dns1", "", "Primary DNS server address")
	rootCmd.Flags().StringVar(&dns2, "dns2", "", "Secondary DNS server address (optional)")
	rootCmd.Flags().BoolVar(&headful, "headful", false, "Show the browser window")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Verbose logging and a screenshot on failure")

	viper.SetEnvPrefix("DNSSET")
	viper.AutomaticEnv()
	viper.SetDefault("url", "http://192.168.1.1")
	for _, name := range []string{"url", "user", "pass", "dns1", "dns2", "headful", "debug"} {
		_ = viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	params := router.Params{
		BaseURL:  viper.GetString("url"),
		Username: viper.GetString("user"),
		Password: viper.GetString("pass"),
		DNS1:     viper.GetString("dns1"),
		DNS2:     viper.GetString("dns2"),
		Headful:  viper.GetBool("headful"),
		Debug:    viper.GetBool("debug"),
	}
	if err := params.Validate(); err != nil {
		return err
	}

	log := zap.NewNop()
	if params.Debug {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
	}
	defer log.Sync()
	sugar := log.Sugar()

	session, err := browser.Launch(browser.Options{
		Headful: params.Headful,
		Logger:  sugar,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	runner := &router.Runner{
		Session: session,
		Profile: router.DefaultProfile(),
		Params:  params,
		Log:     sugar,
	}

	result, err := runner.Run()
	if err != nil {
		if params.Debug {
			if path, serr := session.DumpScreenshot("."); serr == nil {
				fmt.Fprintf(os.Stderr, "⚠ Screenshot saved to %s\n", path)
			} else {
				sugar.Debugw("screenshot capture failed", "error", serr)
			}
		}
		return err
	}

	if result.Verified {
		fmt.Printf("✓ DNS servers updated and verified (%s)\n", dnsSummary(params))
	} else {
		fmt.Printf("⚠ Change applied but could not be verified (%s)\n", dnsSummary(params))
	}
	return nil
}

func dnsSummary(p router.Params) string {
	if p.DNS2 == "" {
		return p.DNS1
	}
	return fmt.Sprintf("%s, %s", p.DNS1, p.DNS2)
}
