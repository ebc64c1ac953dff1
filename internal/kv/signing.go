package kv

import (
	"log/slog"
	"strings"

	apperrors "github.com/runvoy/cfnopts/internal/errors"
)

// Canonical signing profile syntaxes quoted in errors.
const (
	SigningProfilesExample = "MyFunction=SigningProfile"
	SigningProfileExample  = "MyFunction=MySigningProfile or MyFunction=MySigningProfile:MySigningProfileOwner"
)

// SigningProfile names the signer profile used to sign a function or layer.
type SigningProfile struct {
	ProfileName  string `json:"profile_name" yaml:"profile_name" toml:"profile_name"`
	ProfileOwner string `json:"profile_owner" yaml:"profile_owner" toml:"profile_owner"`
}

// SigningProfilesDecoder decodes `Function=Profile` and `Function=Profile:Owner` pairs.
type SigningProfilesDecoder struct {
	logger *slog.Logger
	pair   *pairPattern
}

// NewSigningProfilesDecoder creates a signing profiles decoder.
func NewSigningProfilesDecoder(opts ...Option) *SigningProfilesDecoder {
	o := newDecoderOptions(opts)

	return &SigningProfilesDecoder{
		logger: o.logger,
		pair: &pairPattern{
			prefix: " ",
			key:    classRun{class: SigningKeyClass},
			infix:  "=",
			value:  NewGrammar(AnyChar, WithDelimiter(' '), WithoutSingleQuotes()),
		},
	}
}

// Decode decodes every argument into one mapping keyed by function or layer name.
func (d *SigningProfilesDecoder) Decode(args ...string) (map[string]SigningProfile, error) {
	result := map[string]SigningProfile{}
	if isEmptyInput(args) {
		return result, nil
	}

	for _, arg := range args {
		pairs := d.pair.FindAll(" " + strings.TrimSpace(arg))
		if len(pairs) == 0 {
			return nil, apperrors.ErrMalformedFormat(arg, SigningProfilesExample)
		}

		for _, p := range pairs {
			profile, err := ParseSigningProfile(UnquoteUnescape(p.Value))
			if err != nil {
				return nil, err
			}
			result[UnquoteUnescape(p.Key)] = profile
		}
		d.logger.Debug("decoded signing profiles", "pairs", len(pairs))
	}
	return result, nil
}

// ParseSigningProfile splits `name[:owner]`.
func ParseSigningProfile(value string) (SigningProfile, error) {
	var profile SigningProfile
	switch strings.Count(value, ":") {
	case 0:
		profile.ProfileName = value
	case 1:
		profile.ProfileName, profile.ProfileOwner, _ = strings.Cut(value, ":")
	default:
		return SigningProfile{}, apperrors.ErrInvalidProfileColonCount(value, SigningProfileExample)
	}

	if profile.ProfileName == "" {
		return SigningProfile{}, apperrors.ErrMissingProfileName(value, SigningProfileExample)
	}
	return profile, nil
}
