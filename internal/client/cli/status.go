package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/dmitrijs2005/ridehail/internal/client/guard"
	"github.com/dmitrijs2005/ridehail/internal/client/session"
)

// maskEmail keeps the first two characters of the local part:
// ama.mensah@example.com becomes am***@example.com.
func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at:]
	keep := 2
	if len(local) <= keep {
		keep = 1
	}
	return local[:keep] + "***" + domain
}

// maskToken shows only the start of a credential.
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:6] + "…"
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func statusRows(snap session.Snapshot, resendIn string) [][]string {
	rows := [][]string{
		{"area", guard.ForSnapshot(snap).String()},
		{"phase", string(snap.Phase)},
	}
	if snap.User != nil {
		rows = append(rows,
			[]string{"email", snap.User.Email},
			[]string{"name", snap.User.DisplayName()},
		)
		if snap.User.Phone != "" {
			rows = append(rows, []string{"phone", snap.User.Phone})
		}
		rows = append(rows, []string{"profile", fmt.Sprintf("%t", snap.User.ProfileCompleted)})
	}
	if snap.Token != "" {
		rows = append(rows, []string{"token", maskToken(snap.Token)})
	}
	if snap.PendingEmail != "" {
		rows = append(rows, []string{"pending email", snap.PendingEmail})
	}
	if snap.OtpSession != nil {
		rows = append(rows,
			[]string{"code sent to", maskEmail(snap.OtpSession.Email)},
			[]string{"code type", string(snap.OtpSession.Type)},
		)
		if resendIn != "" {
			rows = append(rows, []string{"resend in", resendIn})
		}
	}
	return rows
}

// Status prints the session as a two-column table.
func (a *App) Status(_ context.Context) error {
	resendIn := ""
	if d := a.cooldown.Remaining(); d > 0 {
		resendIn = d.String()
	}

	t := newTable(a.out)
	t.Header([]string{"Key", "Value"})
	if err := t.Bulk(statusRows(a.session.Snapshot(), resendIn)); err != nil {
		return err
	}
	return t.Render()
}
