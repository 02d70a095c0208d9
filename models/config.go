package models

import "time"

// ResearchConfig holds the runtime knobs for one research run. Zero values
// are replaced with the defaults below by Normalize.
type ResearchConfig struct {
	URLsPerQuery    int           `yaml:"urls_per_query"`
	FetchBatchSize  int           `yaml:"fetch_batch_size"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	WeekInterval    int           `yaml:"week_interval"`
	MaxScrapeChars  int           `yaml:"max_scrape_chars"`
	ChunkLength     int           `yaml:"chunk_length"`
	ChunkOverlap    int           `yaml:"chunk_overlap"`
	MaxChunksTotal  int           `yaml:"max_chunks_total"`
	EmbedWorkers    int           `yaml:"embed_workers"`
	EmbedTokenLimit int           `yaml:"embed_token_limit"`
	SummaryTokens   int           `yaml:"summary_tokens"`
}

const (
	DefaultURLsPerQuery    = 3
	DefaultFetchBatchSize  = 15
	DefaultFetchTimeout    = 10 * time.Second
	DefaultWeekInterval    = 4
	DefaultMaxScrapeChars  = 10000
	DefaultChunkLength     = 300
	DefaultChunkOverlap    = 50
	DefaultMaxChunksTotal  = 50
	DefaultEmbedWorkers    = 5
	DefaultEmbedTokenLimit = 8192
	DefaultSummaryTokens   = 500
)

// Normalize fills unset fields with their defaults. It does not validate;
// boundary validation belongs to the stage constructors.
func (c *ResearchConfig) Normalize() {
	if c.URLsPerQuery == 0 {
		c.URLsPerQuery = DefaultURLsPerQuery
	}
	if c.FetchBatchSize == 0 {
		c.FetchBatchSize = DefaultFetchBatchSize
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.WeekInterval == 0 {
		c.WeekInterval = DefaultWeekInterval
	}
	if c.MaxScrapeChars == 0 {
		c.MaxScrapeChars = DefaultMaxScrapeChars
	}
	if c.ChunkLength == 0 {
		c.ChunkLength = DefaultChunkLength
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
	if c.MaxChunksTotal == 0 {
		c.MaxChunksTotal = DefaultMaxChunksTotal
	}
	if c.EmbedWorkers == 0 {
		c.EmbedWorkers = DefaultEmbedWorkers
	}
	if c.EmbedTokenLimit == 0 {
		c.EmbedTokenLimit = DefaultEmbedTokenLimit
	}
	if c.SummaryTokens == 0 {
		c.SummaryTokens = DefaultSummaryTokens
	}
}
