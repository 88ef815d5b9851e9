package helpers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oksasatya/user-registration/pkg/mailer"
	mailtpl "github.com/oksasatya/user-registration/pkg/mailer/templates"
)

const localTimeLayout = "02 January 2006, 15:04 MST"

// Layouts TimeAt may arrive in once a job has been through JSON.
var timeAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05 -0700",
}

func str(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// EnsureRecipientAndEmail backfills the template's recipient fields from job.To.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	for _, key := range []string{"Email", "RecipientEmail"} {
		if str(job.Data, key) == "" {
			job.Data[key] = job.To
		}
	}
}

// LocalizeTimesIfPossible resolves data["IP"] and, on success, fills an
// empty data["Location"] and renders data["TimeAt"] in the resolved zone.
// Any failure leaves data as it was.
func LocalizeTimesIfPossible(ctx context.Context, resolver mailtpl.GeoResolver, data map[string]any) {
	ip := str(data, "IP")
	if resolver == nil || ip == "" {
		return
	}
	g, err := resolver.Lookup(ctx, ip)
	if err != nil {
		return
	}
	if loc := mailtpl.FormatGeo(g); loc != "" && str(data, "Location") == "" {
		data["Location"] = loc
	}

	tz, err := time.LoadLocation(strings.TrimSpace(g.Timezone))
	if g.Timezone == "" || err != nil {
		return
	}
	if at, ok := timeAt(data["TimeAt"]); ok {
		data["Time"] = at.In(tz).Format(localTimeLayout)
	}
}

func timeAt(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, true
	}
	s := fmt.Sprint(v)
	for _, layout := range timeAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
