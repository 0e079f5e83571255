package cmd

type Config struct {
	HTTPPort                string
	DBHost                  string
	DBPort                  string
	DBUser                  string
	DBPassword              string
	DBName                  string
	DBSslMode               string
	AmqpURL                 string
	MarketplaceBaseURL      string
	MarketplaceServiceToken string
	JWTSecret               string
	RateLimitPerSecond      float64
	RateLimitBurst          float64
}
