package config

// Config holds marquee configuration.
// Stored at: ./config.yaml or ~/.marquee/config.yaml
type Config struct {
	Server     ServerCfg     `mapstructure:"server" yaml:"server"`
	Scrape     ScrapeCfg     `mapstructure:"scrape" yaml:"scrape"`
	Note       NoteCfg       `mapstructure:"note" yaml:"note"`
	TitleImage TitleImageCfg `mapstructure:"title_image" yaml:"title_image"`
	Providers  ProvidersCfg  `mapstructure:"providers" yaml:"providers"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// ScrapeCfg configures the catalog extractor.
type ScrapeCfg struct {
	// CatalogURL overrides the Netflix new-to-watch page, mainly for tests.
	CatalogURL string `mapstructure:"catalog_url" yaml:"catalog_url"`
}

// NoteCfg holds the editorial defaults for generated notes.
type NoteCfg struct {
	Title    string `mapstructure:"title" yaml:"title"`
	Hashtags string `mapstructure:"hashtags" yaml:"hashtags"`
}

// TitleImageCfg holds the fixed caption for generated cover images.
type TitleImageCfg struct {
	Caption string `mapstructure:"caption" yaml:"caption"`
}

// ProvidersCfg configures the generative providers.
type ProvidersCfg struct {
	OpenAI OpenAICfg `mapstructure:"openai" yaml:"openai"`
}

// OpenAICfg configures the OpenAI provider.
type OpenAICfg struct {
	APIKey         string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	TextModel      string `mapstructure:"text_model" yaml:"text_model"`
	ImageModel     string `mapstructure:"image_model" yaml:"image_model"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Scrape: ScrapeCfg{},
		Note: NoteCfg{
			Title:    "本周上新",
			Hashtags: "#Netflix #新片推荐 #追剧清单 #本周上新",
		},
		TitleImage: TitleImageCfg{
			Caption: "收视冠军",
		},
		Providers: ProvidersCfg{
			OpenAI: OpenAICfg{
				APIKey:         "${OPENAI_API_KEY}",
				MaxRetries:     3,
				TimeoutSeconds: 120,
				Enabled:        true,
			},
		},
	}
}
