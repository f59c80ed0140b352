package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Profile names the traced pipeline's elements. The classifier builds its
// matchers from these names, so a different pipeline only needs a new profile.
type Profile struct {
	// PushFunction is the calling function whose chain calls are kept.
	PushFunction string `yaml:"push_function"`
	// Capture is the camera element; its FillBufferDone traces seed frames.
	Capture string `yaml:"capture"`
	// Decoder is the decoder element whose output buffers reach the display.
	Decoder string `yaml:"decoder"`
	// Encoder is the encoder element name prefix.
	Encoder string `yaml:"encoder"`
	// Display is the display sink element name prefix.
	Display string `yaml:"display"`
	// OutputPad is the source pad name of the capture and decoder elements.
	OutputPad string `yaml:"output_pad"`
	// NoisyStages are elements whose chain calls never belong to a frame.
	NoisyStages []string `yaml:"noisy_stages"`
}

// DefaultProfile returns the profile for the OMAP camera -> ducati H.264
// encode/decode -> DRI2 display pipeline.
func DefaultProfile() Profile {
	return Profile{
		PushFunction: "gst_pad_push",
		Capture:      "cam",
		Decoder:      "ducatih264dec",
		Encoder:      "ducatih264enc",
		Display:      "dri2videosink",
		OutputPad:    "src",
		NoisyStages:  []string{"udpsrc", "recv_rtp_sink_", "rtpsession", "rtpssrcdemux"},
	}
}

// LoadProfile reads a YAML profile. Keys absent from the file keep their defaults.
// An empty path returns the default profile.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, &p, yaml.DisallowUnknownField()); err != nil {
		return Profile{}, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate reports empty element names.
func (p Profile) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"push_function", p.PushFunction},
		{"capture", p.Capture},
		{"decoder", p.Decoder},
		{"encoder", p.Encoder},
		{"display", p.Display},
		{"output_pad", p.OutputPad},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s cannot be empty", f.name)
		}
	}
	for i, s := range p.NoisyStages {
		if s == "" {
			return fmt.Errorf("noisy_stages[%d] cannot be empty", i)
		}
	}
	return nil
}

// IsNoisy reports whether stage is listed in NoisyStages.
func (p Profile) IsNoisy(stage string) bool {
	for _, s := range p.NoisyStages {
		if s == stage {
			return true
		}
	}
	return false
}
