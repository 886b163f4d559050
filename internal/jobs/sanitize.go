package jobs

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func descriptionPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return policy
}

// SanitizeDescription strips scripts, event handlers and unsafe URLs from a
// job description while keeping formatting markup.
func SanitizeDescription(html string) string {
	return descriptionPolicy().Sanitize(html)
}
