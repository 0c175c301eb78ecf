// Package config holds the application configuration tree and its loader.
package config

// EmbeddedConfig holds the content of the configuration file embedded in the binary by main.go.
type EmbeddedConfig []byte

// BatchConfig holds the settings of the flight data job.
type BatchConfig struct {
	// JobName is the name recorded in the job repository.
	JobName string `yaml:"job_name"`
	// StorageRef is the name of the storage connection holding input and output objects.
	StorageRef string `yaml:"storage_ref"`
	// InputObject is the raw on-time performance CSV object.
	InputObject string `yaml:"input_object"`
	// CleanedObject is the Parquet object written by the cleaning step and read by normalization.
	CleanedObject string `yaml:"cleaned_object"`
	// NormalizedObject is the final Parquet object.
	NormalizedObject string `yaml:"normalized_object"`
	// Compression is the Parquet codec ("SNAPPY", "GZIP", "NONE").
	Compression string `yaml:"compression"`
	// FlightDateLayout is the Go time layout of the FL_DATE column.
	FlightDateLayout string `yaml:"flight_date_layout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the logging level (e.g., "INFO", "DEBUG").
	Level string `yaml:"level"`
}

// SystemConfig holds system-wide settings.
type SystemConfig struct {
	// Timezone is the application timezone (e.g., "UTC", "America/New_York").
	Timezone string        `yaml:"timezone"`
	Logging  LoggingConfig `yaml:"logging"`
}

// InfrastructureConfig holds logical references to infrastructure components.
type InfrastructureConfig struct {
	// JobRepositoryDBRef is the name of the database entry used for run history.
	JobRepositoryDBRef string `yaml:"job_repository_db_ref"`
}

// MetricsConfig holds metrics and tracing export settings.
type MetricsConfig struct {
	// ServiceName is reported as the OpenTelemetry service.name resource attribute.
	ServiceName string `yaml:"service_name"`
	// PushgatewayURL enables pushing Prometheus metrics at job end when set.
	PushgatewayURL string `yaml:"pushgateway_url"`
	// OTLPEndpoint enables OTLP/HTTP trace export when set (e.g., "localhost:4318").
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	// OTLPInsecure disables TLS for the OTLP exporter.
	OTLPInsecure bool `yaml:"otlp_insecure"`
}

// OntimeConfig holds all configuration under the "ontime" top-level key.
type OntimeConfig struct {
	Batch          BatchConfig          `yaml:"batch"`
	System         SystemConfig         `yaml:"system"`
	Infrastructure InfrastructureConfig `yaml:"infrastructure"`
	Metrics        MetricsConfig        `yaml:"metrics"`
	// StorageConfigs holds named storage connections, decoded by the storage adapters.
	StorageConfigs map[string]interface{} `yaml:"storage"`
	// DatabaseConfigs holds named database connections, decoded by the gorm adapter.
	DatabaseConfigs map[string]interface{} `yaml:"database"`
}

// Config is the root structure for the entire application configuration.
type Config struct {
	Ontime OntimeConfig `yaml:"ontime"`
}

// DefaultFlightDateLayout matches FL_DATE values such as "1/10/2024 12:00:00 AM".
const DefaultFlightDateLayout = "1/2/2006 3:04:05 PM"

// NewConfig returns a new instance of Config with default values.
func NewConfig() *Config {
	return &Config{
		Ontime: OntimeConfig{
			Batch: BatchConfig{
				JobName:          "ontimeJob",
				StorageRef:       "local",
				InputObject:      "raw/ontime.csv",
				CleanedObject:    "cleaned/ontime_cleaned.parquet",
				NormalizedObject: "normalized/ontime_normalized.parquet",
				Compression:      "SNAPPY",
				FlightDateLayout: DefaultFlightDateLayout,
			},
			System: SystemConfig{
				Timezone: "UTC",
				Logging:  LoggingConfig{Level: "INFO"},
			},
			Infrastructure: InfrastructureConfig{
				JobRepositoryDBRef: "metadata",
			},
			Metrics: MetricsConfig{
				ServiceName: "ontime",
			},
			StorageConfigs:  map[string]interface{}{},
			DatabaseConfigs: map[string]interface{}{},
		},
	}
}
