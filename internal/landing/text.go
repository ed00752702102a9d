package landing

import (
	"regexp"
	"strings"
)

var (
	badgeBullets = regexp.MustCompile(`^[👍✅✔\x{FE0F}•\-\*◊◆●○▪▫🔘🌴👉]+\s*`)
	trustBullets = regexp.MustCompile(`^[👍✅✔\x{FE0F}•\-\*◊◆●○▪▫🔘🌴]+\s*`)
	lineBullets  = regexp.MustCompile(`^[\s◊◆●○▪▫•✓✔\x{FE0F}✅👉👍🔘🌴\-\*]+`)
)

// CleanBadgeText strips the leading emoji/bullet run editors paste into
// feature badge titles and descriptions.
func CleanBadgeText(s string) string {
	return strings.TrimSpace(badgeBullets.ReplaceAllString(strings.TrimSpace(s), ""))
}

// CleanTrustText is CleanBadgeText for trust badges, which keep a
// leading pointing hand.
func CleanTrustText(s string) string {
	return strings.TrimSpace(trustBullets.ReplaceAllString(strings.TrimSpace(s), ""))
}

// DescriptionLines splits a product description into display lines,
// dropping blank lines and leading bullets.
func DescriptionLines(description string) []string {
	var out []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(lineBullets.ReplaceAllString(line, ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
