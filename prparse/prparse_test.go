package prparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prremind/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   InboundEmail
		want Extraction
	}{
		{
			name: "standard github notification",
			in: InboundEmail{
				Subject:  "[acme/widgets] Add retry logic to uploader (#42)",
				TextBody: "You can view, comment on, or merge this pull request online at:\n  https://github.com/acme/widgets/pull/42\n",
			},
			want: Extraction{
				RepoName: "acme/widgets",
				PRTitle:  "Add retry logic to uploader",
				PRLink:   "https://github.com/acme/widgets/pull/42",
				PRNumber: "42",
				PRStatus: models.PRStatusOpened,
			},
		},
		{
			name: "merged notification",
			in: InboundEmail{
				Subject:  "[acme/widgets] Fix flaky test (PR #7)",
				TextBody: "Merged #7 into main.\nhttps://github.com/acme/widgets/pull/7",
			},
			want: Extraction{
				RepoName: "acme/widgets",
				PRTitle:  "Fix flaky test",
				PRLink:   "https://github.com/acme/widgets/pull/7",
				PRNumber: "7",
				PRStatus: models.PRStatusMerged,
			},
		},
		{
			name: "forwarded email keeps facts and sets flag",
			in: InboundEmail{
				Subject:  "Fwd: [acme/widgets] Bump deps (#101)",
				TextBody: "---------- Forwarded message ---------\nhttps://github.com/acme/widgets/pull/101?notification_referrer_id=abc",
			},
			want: Extraction{
				RepoName:    "acme/widgets",
				PRTitle:     "Bump deps",
				PRLink:      "https://github.com/acme/widgets/pull/101",
				PRNumber:    "101",
				PRStatus:    models.PRStatusOpened,
				IsForwarded: true,
			},
		},
		{
			name: "link from html body",
			in: InboundEmail{
				Subject:  "[acme/widgets] Rework config loader (#9)",
				HtmlBody: `<p>View it on <a href="https://github.com/acme/widgets/pull/9#issuecomment-1">GitHub</a></p>`,
			},
			want: Extraction{
				RepoName: "acme/widgets",
				PRTitle:  "Rework config loader",
				PRLink:   "https://github.com/acme/widgets/pull/9",
				PRNumber: "9",
				PRStatus: models.PRStatusOpened,
			},
		},
		{
			name: "closed status beats default",
			in: InboundEmail{
				Subject: "[acme/widgets] Closed #3 without merging",
			},
			want: Extraction{
				RepoName: "acme/widgets",
				PRTitle:  "Closed #3 without merging",
				PRNumber: "3",
				PRStatus: models.PRStatusClosed,
			},
		},
		{
			name: "unparseable subject falls back to raw subject",
			in: InboundEmail{
				Subject: "hello there",
			},
			want: Extraction{
				PRTitle:  "hello there",
				PRStatus: models.PRStatusOpened,
			},
		},
		{
			name: "empty subject falls back to placeholder title",
			in:   InboundEmail{},
			want: Extraction{
				PRTitle:  "GitHub Notification",
				PRStatus: models.PRStatusOpened,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(&tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRecipient(t *testing.T) {
	t.Run("prefers original recipient", func(t *testing.T) {
		in := &InboundEmail{OriginalRecipient: "alice@example.com", To: "inbound@pm.example.com"}
		assert.Equal(t, "alice@example.com", ExtractRecipient(in))
	})

	t.Run("falls back to To", func(t *testing.T) {
		in := &InboundEmail{To: "bob@example.com"}
		assert.Equal(t, "bob@example.com", ExtractRecipient(in))
	})
}
