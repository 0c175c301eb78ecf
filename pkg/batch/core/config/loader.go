package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

const moduleName = "config"

// ConfigParams defines the dependencies for NewConfigProvider.
type ConfigParams struct {
	fx.In
	EmbeddedConfig EmbeddedConfig
	EnvFilePath    string `name:"envFilePath" optional:"true"`
}

// loadConfig builds a Config in four passes: defaults, embedded YAML (after ${VAR}
// expansion), merge of non-zero YAML values, then environment overrides.
//
// Parameters:
//
//	envFilePath: The path to the .env file. Empty means ".env" in the working directory.
//	embeddedConfig: The embedded configuration bytes.
//
// Returns:
//
//	A pointer to the loaded Config and an error if loading fails.
func loadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Warnf(".env file (%s) not found or could not be loaded: %v", envFilePath, err)
		}
	} else if err := godotenv.Load(); err != nil {
		logger.Debugf(".env file not found or could not be loaded: %v", err)
	}

	cfg := NewConfig()

	expanded, err := NewOsEnvironmentExpander().Expand(embeddedConfig)
	if err != nil {
		return nil, exception.NewBatchError(moduleName, "failed to expand environment placeholders", err, false, false)
	}

	var yamlConfig Config
	if err := yaml.Unmarshal(expanded, &yamlConfig); err != nil {
		return nil, exception.NewBatchError(moduleName, "failed to unmarshal embedded config", err, false, false)
	}
	mergeConfig(cfg, &yamlConfig)

	if err := loadStructFromEnv(reflect.ValueOf(cfg).Elem(), ""); err != nil {
		return nil, exception.NewBatchError(moduleName, "failed to load config from environment variables", err, false, false)
	}

	if err := validate(cfg); err != nil {
		return nil, exception.NewBatchError(moduleName, "invalid configuration", err, false, false)
	}
	return cfg, nil
}

// LoadConfig loads configuration from the embedded YAML and environment variables.
// It is expected to be called once during application startup.
func LoadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	return loadConfig(envFilePath, embeddedConfig)
}

// NewConfigProvider is an Fx provider that loads and provides *Config.
func NewConfigProvider(params ConfigParams) (*Config, error) {
	return loadConfig(params.EnvFilePath, params.EmbeddedConfig)
}

// validate checks the settings every run depends on.
func validate(cfg *Config) error {
	b := cfg.Ontime.Batch
	switch {
	case b.JobName == "":
		return fmt.Errorf("batch.job_name must not be empty")
	case b.StorageRef == "":
		return fmt.Errorf("batch.storage_ref must not be empty")
	case b.InputObject == "":
		return fmt.Errorf("batch.input_object must not be empty")
	case b.CleanedObject == "" || b.NormalizedObject == "":
		return fmt.Errorf("batch.cleaned_object and batch.normalized_object must not be empty")
	case b.CleanedObject == b.NormalizedObject:
		return fmt.Errorf("batch.cleaned_object and batch.normalized_object must differ (both '%s')", b.CleanedObject)
	}
	return nil
}

// mergeConfig copies non-zero values from source into dest.
func mergeConfig(dest, source *Config) {
	mergeBatchConfig(&dest.Ontime.Batch, &source.Ontime.Batch)
	mergeSystemConfig(&dest.Ontime.System, &source.Ontime.System)
	mergeMetricsConfig(&dest.Ontime.Metrics, &source.Ontime.Metrics)

	if source.Ontime.Infrastructure.JobRepositoryDBRef != "" {
		dest.Ontime.Infrastructure.JobRepositoryDBRef = source.Ontime.Infrastructure.JobRepositoryDBRef
	}
	for key, value := range source.Ontime.StorageConfigs {
		dest.Ontime.StorageConfigs[key] = value
	}
	for key, value := range source.Ontime.DatabaseConfigs {
		dest.Ontime.DatabaseConfigs[key] = value
	}
}

func mergeBatchConfig(dest, source *BatchConfig) {
	if source.JobName != "" {
		dest.JobName = source.JobName
	}
	if source.StorageRef != "" {
		dest.StorageRef = source.StorageRef
	}
	if source.InputObject != "" {
		dest.InputObject = source.InputObject
	}
	if source.CleanedObject != "" {
		dest.CleanedObject = source.CleanedObject
	}
	if source.NormalizedObject != "" {
		dest.NormalizedObject = source.NormalizedObject
	}
	if source.Compression != "" {
		dest.Compression = source.Compression
	}
	if source.FlightDateLayout != "" {
		dest.FlightDateLayout = source.FlightDateLayout
	}
}

func mergeSystemConfig(dest, source *SystemConfig) {
	if source.Timezone != "" {
		dest.Timezone = source.Timezone
	}
	if source.Logging.Level != "" {
		dest.Logging.Level = source.Logging.Level
	}
}

func mergeMetricsConfig(dest, source *MetricsConfig) {
	if source.ServiceName != "" {
		dest.ServiceName = source.ServiceName
	}
	if source.PushgatewayURL != "" {
		dest.PushgatewayURL = source.PushgatewayURL
	}
	if source.OTLPEndpoint != "" {
		dest.OTLPEndpoint = source.OTLPEndpoint
	}
	if source.OTLPInsecure {
		dest.OTLPInsecure = true
	}
}

// loadStructFromEnv recursively overrides struct fields from environment variables.
// Variable names are the upper-cased yaml tag path joined with "_", e.g. ONTIME_BATCH_JOB_NAME.
// Map fields are skipped; named connections are configured in YAML.
//
// Parameters:
//
//	val: The reflect.Value of the struct to populate.
//	prefix: The prefix for environment variable names (e.g., "ONTIME_BATCH_").
func loadStructFromEnv(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		yamlTag := strings.Split(fieldType.Tag.Get("yaml"), ",")[0]
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		envVarName := strings.ToUpper(prefix + yamlTag)

		switch field.Kind() {
		case reflect.Struct:
			if err := loadStructFromEnv(field, envVarName+"_"); err != nil {
				return err
			}
			continue
		case reflect.Map:
			continue
		}

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			continue
		}
		if err := setField(field, envValue); err != nil {
			return fmt.Errorf("failed to set field '%s' from env var '%s': %w", fieldType.Name, envVarName, err)
		}
	}
	return nil
}

// setField sets a string, integer, float or bool field from its textual value.
func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)
	case reflect.Float64, reflect.Float32:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)
	}
	return nil
}
