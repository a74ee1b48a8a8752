// SPDX-License-Identifier: MPL-2.0

package release

import (
	"fmt"
	"strings"
)

// Markdown renders the plan as the job summary section.
func (p Plan) Markdown() string {
	var b strings.Builder

	b.WriteString("## Release\n\n")
	fmt.Fprintf(&b, "- **Engine:** %s\n", p.Engine)
	if p.Package != nil {
		name := p.Package.Name
		if p.Package.Version != "" {
			name += "@" + p.Package.Version
		}
		fmt.Fprintf(&b, "- **Package:** `%s`\n", name)
	} else {
		fmt.Fprintf(&b, "- **Package:** unavailable (%s)\n", p.ManifestError)
	}
	fmt.Fprintf(&b, "- **Owner scope:** `%s`\n\n", p.Repository.OwnerScope())

	b.WriteString("| Round | Registry | Release | Publish |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range p.Rounds {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Target, r.Registry, check(r.DoRelease), check(r.DoPublish))
	}

	if len(p.Decision.Notices) > 0 {
		b.WriteString("\n")
		for _, n := range p.Decision.Notices {
			fmt.Fprintf(&b, "> **%s:** %s\n>\n", n.Level, n.Message)
		}
	}

	return strings.TrimSuffix(b.String(), ">\n")
}

// Markdown renders the result as the job summary section.
func (r *Result) Markdown() string {
	md := r.Plan.Markdown()
	if r.Verified != "" {
		md = strings.TrimRight(md, "\n") + "\n\nVerified on the public registry: `" + r.Verified + "`\n"
	}
	return md
}

func check(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
