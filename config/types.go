package config

// Config represents the complete configuration structure
type Config struct {
	// Stores maps store names to seller credentials. The store named
	// "default" (or the only configured store) is used when no store is
	// selected explicitly.
	Stores  map[string]StoreConfig `mapstructure:"stores"`
	Mock    MockConfig             `mapstructure:"mock"`
	Logging LoggingConfig          `mapstructure:"logging"`
}

// StoreConfig holds the MWS credentials for one seller account
type StoreConfig struct {
	SellerID      string `mapstructure:"seller_id"`
	MarketplaceID string `mapstructure:"marketplace_id"`
	AccessKeyID   string `mapstructure:"access_key_id"`
	SecretKey     string `mapstructure:"secret_key"`
	AuthToken     string `mapstructure:"auth_token"`
	Endpoint      string `mapstructure:"endpoint"`
}

// MockConfig enables substituting canned XML fixture files for live calls
type MockConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Dir     string   `mapstructure:"dir"`
	Files   []string `mapstructure:"files"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
