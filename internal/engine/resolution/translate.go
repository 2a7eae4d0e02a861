package resolution

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

var (
	alternativeSep = regexp.MustCompile(`\s+or\s+|\|\|`)
	clauseSep      = regexp.MustCompile(`\s+and\s+|,`)
	clausePattern  = regexp.MustCompile(`^(~>|==|>=|<=|!=|>|<|=)?\s*(\S+)$`)
)

// TranslateRequirement rewrites a project requirement into semver constraint
// syntax. "~> 1.2" allows any 1.x at or above 1.2.0, "~> 1.2.3" any 1.2.x at
// or above 1.2.3, and a bare version matches exactly.
func TranslateRequirement(raw string) (string, error) {
	alternatives := alternativeSep.Split(strings.TrimSpace(raw), -1)
	out := make([]string, 0, len(alternatives))

	for _, alt := range alternatives {
		clauses := clauseSep.Split(alt, -1)
		translated := make([]string, 0, len(clauses))
		for _, clause := range clauses {
			c, err := translateClause(strings.TrimSpace(clause))
			if err != nil {
				return "", zerr.With(err, "requirement", raw)
			}
			translated = append(translated, c)
		}
		out = append(out, strings.Join(translated, ", "))
	}

	return strings.Join(out, " || "), nil
}

func translateClause(clause string) (string, error) {
	m := clausePattern.FindStringSubmatch(clause)
	if m == nil {
		return "", domain.ErrInvalidRequirement
	}
	op, raw := m[1], m[2]

	v, err := semver.NewVersion(raw)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrInvalidRequirement.Error())
	}

	core, _, _ := strings.Cut(raw, "+")
	core, _, _ = strings.Cut(core, "-")
	dots := strings.Count(core, ".")

	switch op {
	case "~>":
		switch dots {
		case 1:
			upper := semver.New(v.Major()+1, 0, 0, "", "")
			return ">= " + v.String() + ", < " + upper.String(), nil
		case 2:
			upper := semver.New(v.Major(), v.Minor()+1, 0, "", "")
			return ">= " + raw + ", < " + upper.String(), nil
		default:
			return "", domain.ErrInvalidRequirement
		}
	case "", "==", "=", "!=":
		// A partial version would match a whole minor or major series.
		if dots != 2 {
			return "", zerr.With(domain.ErrInvalidRequirement, "reason", "exact match needs a full version")
		}
		if op == "!=" {
			return "!= " + raw, nil
		}
		return "= " + raw, nil
	default:
		return op + " " + raw, nil
	}
}

// translateAll translates every requirement in reqs.
func translateAll(reqs domain.RequirementSet) (domain.RequirementSet, error) {
	out := make(domain.RequirementSet, len(reqs))
	for _, name := range reqs.Names() {
		c, err := TranslateRequirement(reqs[name])
		if err != nil {
			return nil, zerr.With(err, "package", name)
		}
		out[name] = c
	}
	return out, nil
}
