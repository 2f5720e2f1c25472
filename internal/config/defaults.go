package config

const (
	defaultDataDir  = "~/.local/share/verisure"
	defaultLogDir   = "~/.local/share/verisure/logs"
	defaultFrameDir = "~/.local/share/verisure/frames"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultOpinionBaseURL        = "https://api.openai.com/v1"
	defaultOpinionModel          = "gpt-4o-mini"
	defaultOpinionTimeoutSeconds = 60

	defaultELAQuality            = 95
	defaultCompressionRatioFloor = 0.05
	defaultQualityFloor          = 75
	defaultNoiseStdLow           = 5
	defaultNoiseStdModerate      = 8
	defaultNoiseConsistencyLow   = 10
	defaultHighFreqRatioLow      = 0.15
	defaultChannelStdLow         = 20
	defaultChannelStdHigh        = 100
	defaultPixelSampleLimit      = 10000
	defaultMaxKeypoints          = 500
	defaultMinDescriptors        = 10
	defaultMinMatchSeparation    = 30
	defaultClusterRadius         = 50
	defaultPitchStdLow           = 5
	defaultPitchStdNaturalMin    = 50
	defaultPitchStdNaturalMax    = 200
	defaultSilenceRatioMinimal   = 0.05
	defaultSilenceRatioNatural   = 0.1
	defaultEnergyStdLow          = 0.01
	defaultKeyFrameCount         = 3
)

// defaultAIKeywords are software/encoder substrings that mark generated
// content. Matched case-insensitively.
var defaultAIKeywords = []string{
	"midjourney", "dall-e", "dalle", "stable diffusion", "ai",
	"artificial intelligence", "generated", "synthetic", "deepfake",
	"gan", "diffusion", "neural",
}

// defaultGhostQualities is the JPEG ghost re-compression ladder.
var defaultGhostQualities = []int{70, 75, 80, 85, 90, 95}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			FrameDir: defaultFrameDir,
		},
		Tools: Tools{},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
		Opinion: Opinion{
			BaseURL:        defaultOpinionBaseURL,
			Model:          defaultOpinionModel,
			TimeoutSeconds: defaultOpinionTimeoutSeconds,
		},
		Analysis: DefaultAnalysis(),
	}
}

// DefaultAnalysis returns the forensic threshold defaults on their own;
// library consumers that skip TOML loading start from these.
func DefaultAnalysis() Analysis {
	return Analysis{
		AIKeywords:            append([]string(nil), defaultAIKeywords...),
		ELAQuality:            defaultELAQuality,
		GhostQualities:        append([]int(nil), defaultGhostQualities...),
		CompressionRatioFloor: defaultCompressionRatioFloor,
		QualityFloor:          defaultQualityFloor,
		NoiseStdLow:           defaultNoiseStdLow,
		NoiseStdModerate:      defaultNoiseStdModerate,
		NoiseConsistencyLow:   defaultNoiseConsistencyLow,
		HighFreqRatioLow:      defaultHighFreqRatioLow,
		ChannelStdLow:         defaultChannelStdLow,
		ChannelStdHigh:        defaultChannelStdHigh,
		PixelSampleLimit:      defaultPixelSampleLimit,
		MaxKeypoints:          defaultMaxKeypoints,
		MinDescriptors:        defaultMinDescriptors,
		MinMatchSeparation:    defaultMinMatchSeparation,
		ClusterRadius:         defaultClusterRadius,
		PitchStdLow:           defaultPitchStdLow,
		PitchStdNaturalMin:    defaultPitchStdNaturalMin,
		PitchStdNaturalMax:    defaultPitchStdNaturalMax,
		SilenceRatioMinimal:   defaultSilenceRatioMinimal,
		SilenceRatioNatural:   defaultSilenceRatioNatural,
		EnergyStdLow:          defaultEnergyStdLow,
		KeyFrameCount:         defaultKeyFrameCount,
	}
}
