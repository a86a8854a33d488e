package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"valuator/internal/domain"
)

var ErrMalformedResponse = errors.New("malformed gateway response")

// ParseGutCheck decodes a gut-check verdict, tolerating markdown code
// fences around the JSON. Conviction is clamped to [0, 100].
func ParseGutCheck(raw string) (domain.GutCheckResult, error) {
	var out struct {
		ConvictionScore     *float64 `json:"convictionScore"`
		SuggestedAdjustment *float64 `json:"suggestedAdjustment"`
		Reasoning           string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &out); err != nil {
		return domain.GutCheckResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.SuggestedAdjustment == nil || strings.TrimSpace(out.Reasoning) == "" {
		return domain.GutCheckResult{}, fmt.Errorf("%w: missing adjustment or reasoning", ErrMalformedResponse)
	}
	if math.IsNaN(*out.SuggestedAdjustment) || math.IsInf(*out.SuggestedAdjustment, 0) {
		return domain.GutCheckResult{}, fmt.Errorf("%w: adjustment is not finite", ErrMalformedResponse)
	}

	res := domain.GutCheckResult{
		SuggestedAdjustment: *out.SuggestedAdjustment,
		Reasoning:           strings.TrimSpace(out.Reasoning),
	}
	if out.ConvictionScore != nil {
		res.ConvictionScore = math.Max(0, math.Min(100, *out.ConvictionScore))
	}
	return res, nil
}

func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}

// NormalizeGrounding drops empty citations and fills each source's
// registrable domain (eTLD+1). It returns nil when nothing remains.
func NormalizeGrounding(md *domain.GroundingMetadata) *domain.GroundingMetadata {
	if md == nil {
		return nil
	}
	out := &domain.GroundingMetadata{}
	for _, ch := range md.GroundingChunks {
		if ch.Web == nil || ch.Web.URI == "" {
			continue
		}
		web := *ch.Web
		if web.Domain == "" {
			web.Domain = registrableDomain(web.URI)
		}
		out.GroundingChunks = append(out.GroundingChunks, domain.GroundingChunk{Web: &web})
	}
	if len(out.GroundingChunks) == 0 {
		return nil
	}
	return out
}

func registrableDomain(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}
