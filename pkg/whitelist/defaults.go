package whitelist

// DefaultNoiseHeaders are headers that commonly vary between two runs of the
// same client. They are set by servers or infrastructure and rarely reflect
// meaningful drift.
var DefaultNoiseHeaders = []string{
	"date",
	"x-request-id",
	"x-correlation-id",
	"x-trace-id",
	"x-amzn-requestid",
	"x-amzn-trace-id",
	"cf-ray",
	"x-cache",
	"age",
	"expires",
	"last-modified",
	"etag",
}

// DefaultNoisePayloadKeys are payload keys that usually carry timestamps,
// cache-busters or one-time values.
var DefaultNoisePayloadKeys = []string{
	"_",
	"t",
	"ts",
	"timestamp",
	"time",
	"rand",
	"random",
	"nonce",
	"cb",
	"cachebuster",
}

// Defaults returns a configuration exempting the default noise headers and
// payload keys everywhere.
func Defaults() *Config {
	return &Config{
		Global: &Rule{
			Headers:     append([]string(nil), DefaultNoiseHeaders...),
			PayloadKeys: append([]string(nil), DefaultNoisePayloadKeys...),
		},
	}
}
