package metadata

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/neurlang/gospectro/codecerr"
)

const (
	scaleLog   = "LOG"
	scaleLin   = "LIN"
	modePhase  = "PHASE"
	modeMag    = "MAG"
	defaultExt = ".png"
)

var suffix = regexp.MustCompile(`^(?:(.*)_)?SR([0-9]+)_(LOG|LIN)(?:_(PHASE|MAG))?$`)

// Metadata is everything a decoder needs besides the pixels.
type Metadata struct {
	SampleRate   int
	LogScale     bool
	PhaseEncoded bool
}

// Validate reports a non-positive sample rate.
func (m Metadata) Validate() error {
	if m.SampleRate <= 0 {
		return codecerr.MalformedMetadata("sample_rate", m.SampleRate, "must be positive")
	}
	return nil
}

// String returns Format(m).
func (m Metadata) String() string {
	return Format(m)
}

// Format encodes m as SR{rate}_{LOG|LIN}_{PHASE|MAG}.
func Format(m Metadata) string {
	scale := scaleLin
	if m.LogScale {
		scale = scaleLog
	}
	mode := modeMag
	if m.PhaseEncoded {
		mode = modePhase
	}
	return "SR" + strconv.Itoa(m.SampleRate) + "_" + scale + "_" + mode
}

// Parse decodes a suffix written by Format. It also accepts a whole file name
// or path, and the legacy suffix without a phase field, which means PHASE.
func Parse(s string) (Metadata, error) {
	_, m, err := split(s)
	return m, err
}

// Filename returns the image file name for base.
func Filename(base string, m Metadata) string {
	return base + "_" + Format(m) + defaultExt
}

// ParseFilename splits path into its base (directory kept, extension
// dropped) and metadata. A name without an extension is accepted.
func ParseFilename(path string) (string, Metadata, error) {
	return split(path)
}

func split(s string) (string, Metadata, error) {
	dir, name := filepath.Split(s)
	match := suffix.FindStringSubmatch(name)
	if match == nil {
		match = suffix.FindStringSubmatch(strings.TrimSuffix(name, filepath.Ext(name)))
	}
	if match == nil {
		return "", Metadata{}, codecerr.MalformedMetadata("name", filepath.Base(s), "expected _SR{rate}_{LOG|LIN}[_{PHASE|MAG}]")
	}
	rate, err := strconv.Atoi(match[2])
	if err != nil {
		return "", Metadata{}, codecerr.MalformedMetadata("sample_rate", match[2], err.Error())
	}
	m := Metadata{
		SampleRate:   rate,
		LogScale:     match[3] == scaleLog,
		PhaseEncoded: match[4] != modeMag,
	}
	if err := m.Validate(); err != nil {
		return "", Metadata{}, err
	}
	return dir + match[1], m, nil
}
