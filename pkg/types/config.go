package types

import "time"

// Defaults shared by the stages.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultUserAgent       = "da-research/0.1"
	DefaultMaxChars        = 15000
	DefaultMaxPDFBytes     = 50 << 20
	DefaultMaxDocuments    = 10
	DefaultMaxResults      = 5
	DefaultMaxFollowUps    = 3
	DefaultDocPageSize     = 3
	DefaultReasonerModel   = "gemini-1.5-flash"
	DefaultAnthropicModel  = "claude-sonnet-4-5-20250929"
	DefaultProvider        = "gemini"
	DefaultRunTimeout      = 2 * time.Minute
	DefaultServeAddr       = ":5001"
	DefaultReasonerSteps   = 4
	DefaultSearchBackend   = "duckduckgo"
	DefaultDocStoreBackend = "none"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds every single network call (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

func (c *HTTPConfig) inherit(parent HTTPConfig) {
	if c.Timeout <= 0 {
		c.Timeout = parent.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = parent.UserAgent
	}
}

// FetchConfig holds settings for the web fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxChars caps the cleaned page text (default 15000).
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`
}

// CouncilConfig holds settings for council portal discovery.
type CouncilConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// RydeBaseURL overrides the Ryde portal origin.
	RydeBaseURL string `json:"ryde_base_url,omitempty" yaml:"ryde_base_url,omitempty" mapstructure:"ryde_base_url"`

	// DefaultJurisdiction is used when a query names a reference but no jurisdiction.
	DefaultJurisdiction string `json:"default_jurisdiction,omitempty" yaml:"default_jurisdiction,omitempty" mapstructure:"default_jurisdiction"`

	// MaxDocuments caps how many discovered documents are extracted (default 10).
	MaxDocuments int `json:"max_documents" yaml:"max_documents" mapstructure:"max_documents"`
}

// PDFConfig holds settings for PDF text extraction.
type PDFConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxPages limits pages per document; 0 extracts all pages.
	MaxPages int `json:"max_pages" yaml:"max_pages" mapstructure:"max_pages"`

	// MaxBytes caps a single PDF download (default 50 MiB).
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`
}

// SearchConfig holds settings for the general web search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the general search backend: duckduckgo or gemini.
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	// MaxResults is the number of search results requested (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// MaxFollowUps caps how many relevant results are fetched (default 3).
	MaxFollowUps int `json:"max_follow_ups" yaml:"max_follow_ups" mapstructure:"max_follow_ups"`
}

// DocStoreConfig holds settings for the document-store search capability.
type DocStoreConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the store: vertex, local, or none.
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	// PageSize caps results per query (default 3).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// Vertex AI Search coordinates.
	Project       string `json:"project,omitempty" yaml:"project,omitempty" mapstructure:"project"`
	Location      string `json:"location,omitempty" yaml:"location,omitempty" mapstructure:"location"`
	DataStore     string `json:"data_store,omitempty" yaml:"data_store,omitempty" mapstructure:"data_store"`
	ServingConfig string `json:"serving_config,omitempty" yaml:"serving_config,omitempty" mapstructure:"serving_config"`

	// AccessToken is a static OAuth token; empty uses Application Default Credentials.
	AccessToken string `json:"-" yaml:"-" mapstructure:"access_token"`

	// CorpusPath is the YAML corpus loaded by the local backend.
	CorpusPath string `json:"corpus_path,omitempty" yaml:"corpus_path,omitempty" mapstructure:"corpus_path"`
}

// ReasonerConfig holds settings for the language-model boundary.
type ReasonerConfig struct {
	// Provider selects the backend: gemini or anthropic.
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "gemini-1.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the provider. Empty disables the reasoner.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// MaxSteps bounds the tool-invocation loop (default 4).
	MaxSteps int `json:"max_steps" yaml:"max_steps" mapstructure:"max_steps"`
}

// RunConfig holds settings for a single research run.
type RunConfig struct {
	// Timeout aborts a run and all its outstanding network calls (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ServeConfig holds settings for the HTTP boundary.
type ServeConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `json:"level" yaml:"level" mapstructure:"level"`
	Development bool   `json:"development" yaml:"development" mapstructure:"development"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Council  CouncilConfig  `json:"council" yaml:"council" mapstructure:"council"`
	PDF      PDFConfig      `json:"pdf" yaml:"pdf" mapstructure:"pdf"`
	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
	DocStore DocStoreConfig `json:"docstore" yaml:"docstore" mapstructure:"docstore"`
	Reasoner ReasonerConfig `json:"reasoner" yaml:"reasoner" mapstructure:"reasoner"`
	Run      RunConfig      `json:"run" yaml:"run" mapstructure:"run"`
	Serve    ServeConfig    `json:"serve" yaml:"serve" mapstructure:"serve"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}

// SetDefaults fills unset fields. Stage HTTP settings inherit from the
// top-level http section.
func (c *PipelineConfig) SetDefaults() {
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}
	c.Fetch.inherit(c.HTTP)
	c.Council.inherit(c.HTTP)
	c.PDF.inherit(c.HTTP)
	c.Search.inherit(c.HTTP)
	c.DocStore.inherit(c.HTTP)

	if c.Fetch.MaxChars <= 0 {
		c.Fetch.MaxChars = DefaultMaxChars
	}
	if c.Council.MaxDocuments <= 0 {
		c.Council.MaxDocuments = DefaultMaxDocuments
	}
	if c.PDF.MaxPages < 0 {
		c.PDF.MaxPages = 0
	}
	if c.PDF.MaxBytes <= 0 {
		c.PDF.MaxBytes = DefaultMaxPDFBytes
	}
	if c.Search.Backend == "" {
		c.Search.Backend = DefaultSearchBackend
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = DefaultMaxResults
	}
	if c.Search.MaxFollowUps <= 0 {
		c.Search.MaxFollowUps = DefaultMaxFollowUps
	}
	if c.DocStore.Backend == "" {
		c.DocStore.Backend = DefaultDocStoreBackend
	}
	if c.DocStore.PageSize <= 0 {
		c.DocStore.PageSize = DefaultDocPageSize
	}
	if c.DocStore.Location == "" {
		c.DocStore.Location = "global"
	}
	if c.DocStore.ServingConfig == "" {
		c.DocStore.ServingConfig = "default_config"
	}
	if c.Reasoner.Provider == "" {
		c.Reasoner.Provider = DefaultProvider
	}
	if c.Reasoner.Model == "" {
		c.Reasoner.Model = DefaultReasonerModel
		if c.Reasoner.Provider == "anthropic" {
			c.Reasoner.Model = DefaultAnthropicModel
		}
	}
	if c.Reasoner.MaxSteps <= 0 {
		c.Reasoner.MaxSteps = DefaultReasonerSteps
	}
	if c.Run.Timeout <= 0 {
		c.Run.Timeout = DefaultRunTimeout
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultServeAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
