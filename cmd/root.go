/*
 * m3u-bridge is a project to serve an M3U playlist through an Xtream-style catalog.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lucasduport/m3u-bridge/pkg/config"
	"github.com/lucasduport/m3u-bridge/pkg/server"
	"github.com/lucasduport/m3u-bridge/pkg/utils"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "m3u-bridge",
	Short: "Serve an M3U playlist through an Xtream-style catalog",
	Long: `m3u-bridge fetches a single upstream M3U playlist, keeps it in memory
for a bounded time and serves it to IPTV players.

It supports:
- get.php raw playlist passthrough with credential placeholders
- panel_api.php and player_api.php JSON catalogs
- a normalized playlist rebuilt from the parsed catalog
- local allow-list or LDAP authentication`,

	RunE: func(cmd *cobra.Command, args []string) error {
		conf := buildConfig()
		if conf.LogLevel != "" {
			utils.SetLogLevel(utils.ParseLogLevel(conf.LogLevel))
		}
		utils.InfoLog("[m3u-bridge] Server is starting...")

		if err := checkConfig(conf); err != nil {
			return err
		}

		srv, err := server.NewServer(conf)
		if err != nil {
			return utils.PrintErrorAndReturn(err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return srv.Serve(ctx)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.m3u-bridge.yaml)")

	flags := rootCmd.PersistentFlags()

	// Upstream playlist
	flags.StringP("m3u-url", "u", "", "Upstream M3U playlist URL")
	flags.Duration("m3u-cache-expiration", config.DefaultCacheExpiration, "How long a fetched playlist is served before it is fetched again")
	flags.String("user-agent", "", "User-Agent sent to the upstream (default IPTVSmartersPro)")
	flags.Duration("upstream-timeout", config.DefaultUpstreamTimeout, "Timeout of an upstream playlist request")

	// Served endpoints
	flags.Int("port", config.DefaultPort, "Listening port")
	flags.Int("advertised-port", 0, "Port to use in server_info (for reverse proxy)")
	flags.String("hostname", "", "Hostname to use in server_info")
	flags.Bool("https", false, "Advertise HTTPS in server_info")
	flags.String("m3u-file-name", config.DefaultM3UFileName, "Name of the normalized M3U playlist route")
	flags.String("custom-endpoint", "", "Custom endpoint path")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Float64("rate-limit", 0, "Maximum requests per second (0 disables the limit)")
	flags.Int("rate-burst", 0, "Requests allowed in a burst above rate-limit (default: the rate)")

	// Authentication flags
	flags.String("users", "", "Allowed credentials as user:pass pairs separated by commas (empty allows everyone)")

	// LDAP authentication flags
	flags.Bool("ldap-enabled", false, "Enable LDAP authentication")
	flags.String("ldap-server", "", "LDAP server URL")
	flags.String("ldap-base-dn", "", "LDAP base DN")
	flags.String("ldap-bind-dn", "", "LDAP bind DN")
	flags.String("ldap-bind-password", "", "LDAP bind password")
	flags.String("ldap-user-attribute", "uid", "LDAP username attribute")
	flags.String("ldap-group-attribute", "memberOf", "LDAP group attribute")
	flags.String("ldap-required-group", "", "Required LDAP group")

	// Bind all flags to viper
	if err := viper.BindPFlags(flags); err != nil {
		log.Fatal("Error binding PFlags to viper")
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory and current directory
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".m3u-bridge")
	}

	// Replace hyphens with underscores in environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Read environment variables
	viper.AutomaticEnv()

	// Read in config file if found
	if err := viper.ReadInConfig(); err == nil {
		utils.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

// buildConfig reads the effective configuration from viper.
func buildConfig() *config.ProxyConfig {
	conf := &config.ProxyConfig{
		HostConfig: &config.HostConfiguration{
			Hostname: viper.GetString("hostname"),
			Port:     viper.GetInt("port"),
		},
		RemoteURL:          strings.TrimSpace(viper.GetString("m3u-url")),
		M3UCacheExpiration: viper.GetDuration("m3u-cache-expiration"),
		UserAgent:          viper.GetString("user-agent"),
		UpstreamTimeout:    viper.GetDuration("upstream-timeout"),
		Users:              viper.GetString("users"),
		AdvertisedPort:     viper.GetInt("advertised-port"),
		HTTPS:              viper.GetBool("https"),
		M3UFileName:        viper.GetString("m3u-file-name"),
		CustomEndpoint:     viper.GetString("custom-endpoint"),
		LogLevel:           viper.GetString("log-level"),
		RateLimit:          viper.GetFloat64("rate-limit"),
		RateBurst:          viper.GetInt("rate-burst"),
		// LDAP configuration
		LDAPEnabled:        viper.GetBool("ldap-enabled"),
		LDAPServer:         viper.GetString("ldap-server"),
		LDAPBaseDN:         viper.GetString("ldap-base-dn"),
		LDAPBindDN:         viper.GetString("ldap-bind-dn"),
		LDAPBindPassword:   config.CredentialString(viper.GetString("ldap-bind-password")),
		LDAPUserAttribute:  viper.GetString("ldap-user-attribute"),
		LDAPGroupAttribute: viper.GetString("ldap-group-attribute"),
		LDAPRequiredGroup:  viper.GetString("ldap-required-group"),
	}
	conf.ApplyDefaults()
	return conf
}

// checkConfig logs every configuration problem and returns the fatal ones.
// A missing playlist URL only disables the catalog.
func checkConfig(conf *config.ProxyConfig) error {
	err := conf.Validate()
	if err == nil {
		return nil
	}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	var fatal []error
	for _, e := range errs {
		if errors.Is(e, config.ErrMissingPlaylistURL) {
			utils.ErrorLog("%v: every catalog request will fail until it is set", e)
			continue
		}
		utils.ErrorLog("%v", e)
		fatal = append(fatal, e)
	}
	return errors.Join(fatal...)
}
