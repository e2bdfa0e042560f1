package inference

// RequestOptions are caller-provided overrides; nil means "use default".
type RequestOptions struct {
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	Seed        *int64
}

// ResolveParams fills SamplingParams from opts, defaulting unset fields.
// Defaults match the upstream serving configuration for the model family.
func ResolveParams(opts RequestOptions) SamplingParams {
	params := SamplingParams{
		Temperature: 0.7,
		TopP:        0.95,
		MaxTokens:   2048,
		Seed:        -1,
	}

	if opts.Temperature != nil {
		params.Temperature = *opts.Temperature
	}
	if opts.TopP != nil {
		params.TopP = *opts.TopP
	}
	if opts.MaxTokens != nil && *opts.MaxTokens > 0 {
		params.MaxTokens = *opts.MaxTokens
	}
	if opts.Seed != nil {
		params.Seed = *opts.Seed
	}

	return params
}
