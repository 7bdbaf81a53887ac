package config

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix = "MERGINGTON"
)

const (
	TLSProfileKey          = "server.tls_compatibility"
	TLSProfileModern       = "modern"
	TLSProfileIntermediate = "intermediate"
)

// ServerConfig defines configs related to the activities server
type ServerConfig struct {
	Address         string
	Cert            string
	Key             string
	TLS             bool
	TLSProfile      string        `yaml:"tls_compatibility"`
	URLPrefix       string        `yaml:"url_prefix"`
	Keepalive       bool          `yaml:"keepalive"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultHTTPServer returns an http server with timeouts suited to the
// activities API, wired to the provided context and handler.
func (s *ServerConfig) DefaultHTTPServer(ctx context.Context, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              s.Address,
		Handler:           handler,
		ReadTimeout:       25 * time.Second,
		WriteTimeout:      40 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       5 * time.Minute,
		MaxHeaderBytes:    1 << 18,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}
}

// ActivitiesConfig defines configs related to the activity catalog
type ActivitiesConfig struct {
	SeedPath string `yaml:"seed_path"`
	DevData  bool   `yaml:"dev_data"`
}

// LimitsConfig defines configs related to rate limiting of mutation requests
type LimitsConfig struct {
	MutationsPerMinute int `yaml:"mutations_per_minute"`
	MutationBurst      int `yaml:"mutation_burst"`
}

// LoggingConfig defines configs related to logging
type LoggingConfig struct {
	Debug         bool
	JSON          bool
	DisableBanner bool `yaml:"disable_banner"`
}

// HTTPBasicAuthConfig holds the credentials protecting an HTTP endpoint
type HTTPBasicAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// PrometheusConfig defines configs related to the metrics endpoint
type PrometheusConfig struct {
	BasicAuth HTTPBasicAuthConfig `yaml:"basic_auth"`
}

// MergingtonConfig stores the application configuration. Each subcategory is
// broken up into it's own struct, defined above. When editing any of these
// structs, Manager.addConfigs and Manager.LoadConfig should be
// updated to set and retrieve the configurations as appropriate.
type MergingtonConfig struct {
	Server     ServerConfig
	Activities ActivitiesConfig
	Limits     LimitsConfig
	Logging    LoggingConfig
	Prometheus PrometheusConfig
}

// addConfigs adds the configuration keys and default values that will be
// filled into the MergingtonConfig struct
func (man Manager) addConfigs() {
	// Server
	man.addConfigString("server.address", "0.0.0.0:8000",
		"activities server address (host:port)")
	man.addConfigString("server.cert", "",
		"activities server TLS certificate path")
	man.addConfigString("server.key", "",
		"activities server TLS key path")
	man.addConfigBool("server.tls", false,
		"Serve HTTPS instead of plain HTTP")
	man.addConfigString(TLSProfileKey, TLSProfileIntermediate,
		fmt.Sprintf("TLS security profile choose one of %s or %s",
			TLSProfileModern, TLSProfileIntermediate))
	man.addConfigString("server.url_prefix", "",
		"URL prefix used on server and frontend endpoints")
	man.addConfigBool("server.keepalive", true,
		"Controls whether HTTP keep-alives are enabled")
	man.addConfigDuration("server.shutdown_timeout", 30*time.Second,
		"Time to wait for active connections to drain on shutdown")

	// Activities
	man.addConfigString("activities.seed_path", "",
		"Path to a yaml file overriding the built-in activity catalog")
	man.addConfigBool("activities.dev_data", false,
		"Seed sample participants for development")

	// Limits
	man.addConfigInt("limits.mutations_per_minute", 120,
		"Rate limit on signup and unregister requests per minute")
	man.addConfigInt("limits.mutation_burst", 30,
		"Burst allowance for the signup and unregister rate limit")

	// Logging
	man.addConfigBool("logging.debug", false,
		"Enable debug logging")
	man.addConfigBool("logging.json", false,
		"Log in JSON format")
	man.addConfigBool("logging.disable_banner", false,
		"Disable startup banner")

	// Prometheus
	man.addConfigString("prometheus.basic_auth.username", "",
		"Username for HTTP Basic Auth on the metrics endpoint")
	man.addConfigString("prometheus.basic_auth.password", "",
		"Password for HTTP Basic Auth on the metrics endpoint")
}

// LoadConfig will load the config variables into a fully initialized
// MergingtonConfig struct
func (man Manager) LoadConfig() MergingtonConfig {
	man.loadConfigFile()

	return MergingtonConfig{
		Server: ServerConfig{
			Address:         man.getConfigString("server.address"),
			Cert:            man.getConfigString("server.cert"),
			Key:             man.getConfigString("server.key"),
			TLS:             man.getConfigBool("server.tls"),
			TLSProfile:      man.getConfigTLSProfile(),
			URLPrefix:       man.getConfigString("server.url_prefix"),
			Keepalive:       man.getConfigBool("server.keepalive"),
			ShutdownTimeout: man.getConfigDuration("server.shutdown_timeout"),
		},
		Activities: ActivitiesConfig{
			SeedPath: man.getConfigString("activities.seed_path"),
			DevData:  man.getConfigBool("activities.dev_data"),
		},
		Limits: LimitsConfig{
			MutationsPerMinute: man.getConfigInt("limits.mutations_per_minute"),
			MutationBurst:      man.getConfigInt("limits.mutation_burst"),
		},
		Logging: LoggingConfig{
			Debug:         man.getConfigBool("logging.debug"),
			JSON:          man.getConfigBool("logging.json"),
			DisableBanner: man.getConfigBool("logging.disable_banner"),
		},
		Prometheus: PrometheusConfig{
			BasicAuth: HTTPBasicAuthConfig{
				Username: man.getConfigString("prometheus.basic_auth.username"),
				Password: man.getConfigString("prometheus.basic_auth.password"),
			},
		},
	}
}

// IsSet determines whether a given config key has been explicitly set by any
// of the configuration sources. If false, the default value is being used.
func (man Manager) IsSet(key string) bool {
	return man.viper.IsSet(key)
}

// envNameFromConfigKey converts a config key into the corresponding
// environment variable name
func envNameFromConfigKey(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.Replace(key, ".", "_", -1))
}

// flagNameFromConfigKey converts a config key into the corresponding flag name
func flagNameFromConfigKey(key string) string {
	return strings.Replace(key, ".", "_", -1)
}

// Manager manages the addition and retrieval of config values for the
// activities server. It's only public API method is LoadConfig, which will
// return the populated MergingtonConfig struct.
type Manager struct {
	viper    *viper.Viper
	command  *cobra.Command
	defaults map[string]interface{}
}

// NewManager initializes a Manager wrapping the provided cobra
// command. All config flags will be attached to that command (and inherited by
// the subcommands). Typically this should be called just once, with the root
// command.
func NewManager(command *cobra.Command) Manager {
	man := Manager{
		viper:    viper.New(),
		command:  command,
		defaults: map[string]interface{}{},
	}
	man.addConfigs()
	return man
}

// addDefault will check for duplication, then add a default value to the
// defaults map
func (man Manager) addDefault(key string, defVal interface{}) {
	if _, exists := man.defaults[key]; exists {
		panic("Trying to add duplicate config for key " + key)
	}

	man.defaults[key] = defVal
}

func getFlagUsage(key string, usage string) string {
	return fmt.Sprintf("Env: %s\n\t\t%s", envNameFromConfigKey(key), usage)
}

// getInterfaceVal is a helper function used by the getConfig* functions to
// retrieve the config value as interface{}, which will then be cast to the
// appropriate type by the getConfig* function.
func (man Manager) getInterfaceVal(key string) interface{} {
	interfaceVal := man.viper.Get(key)
	if interfaceVal == nil {
		var ok bool
		interfaceVal, ok = man.defaults[key]
		if !ok {
			panic("Tried to look up default value for nonexistent config option: " + key)
		}
	}
	return interfaceVal
}

// addConfigString adds a string config to the config options
func (man Manager) addConfigString(key, defVal, usage string) {
	man.command.PersistentFlags().String(flagNameFromConfigKey(key), defVal, getFlagUsage(key, usage))
	man.viper.BindPFlag(key, man.command.PersistentFlags().Lookup(flagNameFromConfigKey(key)))
	man.viper.BindEnv(key, envNameFromConfigKey(key))

	// Add default
	man.addDefault(key, defVal)
}

// getConfigString retrieves a string from the loaded config
func (man Manager) getConfigString(key string) string {
	interfaceVal := man.getInterfaceVal(key)
	stringVal, err := cast.ToStringE(interfaceVal)
	if err != nil {
		panic("Unable to cast to string for key " + key + ": " + err.Error())
	}

	return stringVal
}

// Custom handling for TLSProfile which can only accept specific values
// for the argument
func (man Manager) getConfigTLSProfile() string {
	ival := man.getInterfaceVal(TLSProfileKey)
	sval, err := cast.ToStringE(ival)
	if err != nil {
		panic(fmt.Sprintf("%s requires a string value: %s", TLSProfileKey, err.Error()))
	}
	switch sval {
	case TLSProfileModern, TLSProfileIntermediate:
	default:
		panic(fmt.Sprintf("%s must be one of %s or %s", TLSProfileKey,
			TLSProfileModern, TLSProfileIntermediate))
	}
	return sval
}

// addConfigInt adds a int config to the config options
func (man Manager) addConfigInt(key string, defVal int, usage string) {
	man.command.PersistentFlags().Int(flagNameFromConfigKey(key), defVal, getFlagUsage(key, usage))
	man.viper.BindPFlag(key, man.command.PersistentFlags().Lookup(flagNameFromConfigKey(key)))
	man.viper.BindEnv(key, envNameFromConfigKey(key))

	// Add default
	man.addDefault(key, defVal)
}

// getConfigInt retrieves a int from the loaded config
func (man Manager) getConfigInt(key string) int {
	interfaceVal := man.getInterfaceVal(key)
	intVal, err := cast.ToIntE(interfaceVal)
	if err != nil {
		panic("Unable to cast to int for key " + key + ": " + err.Error())
	}

	return intVal
}

// addConfigBool adds a bool config to the config options
func (man Manager) addConfigBool(key string, defVal bool, usage string) {
	man.command.PersistentFlags().Bool(flagNameFromConfigKey(key), defVal, getFlagUsage(key, usage))
	man.viper.BindPFlag(key, man.command.PersistentFlags().Lookup(flagNameFromConfigKey(key)))
	man.viper.BindEnv(key, envNameFromConfigKey(key))

	// Add default
	man.addDefault(key, defVal)
}

// getConfigBool retrieves a bool from the loaded config
func (man Manager) getConfigBool(key string) bool {
	interfaceVal := man.getInterfaceVal(key)
	boolVal, err := cast.ToBoolE(interfaceVal)
	if err != nil {
		panic("Unable to cast to bool for key " + key + ": " + err.Error())
	}

	return boolVal
}

// addConfigDuration adds a duration config to the config options
func (man Manager) addConfigDuration(key string, defVal time.Duration, usage string) {
	man.command.PersistentFlags().Duration(flagNameFromConfigKey(key), defVal, getFlagUsage(key, usage))
	man.viper.BindPFlag(key, man.command.PersistentFlags().Lookup(flagNameFromConfigKey(key)))
	man.viper.BindEnv(key, envNameFromConfigKey(key))

	// Add default
	man.addDefault(key, defVal)
}

// getConfigDuration retrieves a duration from the loaded config
func (man Manager) getConfigDuration(key string) time.Duration {
	interfaceVal := man.getInterfaceVal(key)
	durationVal, err := cast.ToDurationE(interfaceVal)
	if err != nil {
		panic("Unable to cast to duration for key " + key + ": " + err.Error())
	}

	return durationVal
}

// loadConfigFile handles the loading of the config file.
func (man Manager) loadConfigFile() {
	man.viper.SetConfigType("yaml")

	configFile := man.command.PersistentFlags().Lookup("config").Value.String()

	if configFile == "" {
		// No config file set, only use configs from env
		// vars/flags/defaults
		return
	}

	man.viper.SetConfigFile(configFile)
	err := man.viper.ReadInConfig()
	if err != nil {
		fmt.Println("Error loading config file:", err)
		os.Exit(1)
	}

	fmt.Println("Using config file: ", man.viper.ConfigFileUsed())
}

// TestConfig returns a barebones configuration suitable for use in tests.
// Individual tests may want to override some of the values provided.
func TestConfig() MergingtonConfig {
	return MergingtonConfig{
		Server: ServerConfig{
			Address:         "0.0.0.0:8000",
			TLSProfile:      TLSProfileIntermediate,
			Keepalive:       true,
			ShutdownTimeout: 30 * time.Second,
		},
		Limits: LimitsConfig{
			MutationsPerMinute: 120,
			MutationBurst:      100,
		},
		Logging: LoggingConfig{
			Debug:         true,
			DisableBanner: true,
		},
	}
}
