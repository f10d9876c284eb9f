// Package prparse extracts pull-request facts from inbound GitHub
// notification emails delivered through Postmark's inbound webhook.
package prparse

import (
	"regexp"
	"strings"

	"prremind/models"
)

// InboundEmail is the subset of Postmark's inbound webhook payload the
// parser works with. Field names follow Postmark's JSON casing.
type InboundEmail struct {
	From              string               `json:"From"`
	FromName          string               `json:"FromName"`
	To                string               `json:"To"`
	OriginalRecipient string               `json:"OriginalRecipient"`
	Subject           string               `json:"Subject"`
	MessageID         string               `json:"MessageID"`
	Date              string               `json:"Date"`
	TextBody          string               `json:"TextBody"`
	HtmlBody          string               `json:"HtmlBody"`
	Headers           []InboundEmailHeader `json:"Headers"`
}

type InboundEmailHeader struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// Extraction is the structured result of parsing one inbound email.
// Parsing never fails outright: when nothing matches, PRTitle falls
// back to the raw subject and the rest stays empty.
type Extraction struct {
	RepoName    string
	PRTitle     string
	PRLink      string
	PRNumber    string
	PRStatus    string
	IsForwarded bool
}

var (
	fwdPrefixRe  = regexp.MustCompile(`(?i)^fwd:\s*`)
	repoRe       = regexp.MustCompile(`\[([^/\]]+/[^/\]]+)\]`)
	prNumberRe   = regexp.MustCompile(`(?i)(?:PR\s*)?#(\d+)`)
	prSuffixRe   = regexp.MustCompile(`\s*\((?:PR\s*)?#\d+\)\s*$`)
	prLinkRe     = regexp.MustCompile(`https://github\.com/[^/\s]+/[^/\s]+/pull/\d+`)
	linkNumberRe = regexp.MustCompile(`/pull/(\d+)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ExtractRecipient returns the email address identifying the user an
// inbound notification belongs to.
func ExtractRecipient(in *InboundEmail) string {
	if in.OriginalRecipient != "" {
		return in.OriginalRecipient
	}
	return in.To
}

// Parse extracts PR facts from the subject and bodies of an email.
func Parse(in *InboundEmail) Extraction {
	subject := strings.TrimSpace(in.Subject)
	forwarded := fwdPrefixRe.MatchString(subject)
	cleanSubject := fwdPrefixRe.ReplaceAllString(subject, "")

	link := extractLink(in.TextBody, in.HtmlBody)

	return Extraction{
		RepoName:    extractRepoName(cleanSubject),
		PRTitle:     extractTitle(cleanSubject),
		PRLink:      link,
		PRNumber:    extractNumber(cleanSubject, link),
		PRStatus:    extractStatus(cleanSubject, in.TextBody),
		IsForwarded: forwarded,
	}
}

func extractRepoName(subject string) string {
	if m := repoRe.FindStringSubmatch(subject); m != nil {
		return m[1]
	}
	return ""
}

func extractTitle(subject string) string {
	title := repoRe.ReplaceAllString(subject, "")
	title = prSuffixRe.ReplaceAllString(title, "")
	title = whitespaceRe.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)
	if title == "" {
		return "GitHub Notification"
	}
	return title
}

func extractLink(textBody, htmlBody string) string {
	if htmlBody != "" {
		if link := extractLinkFromHTML(htmlBody); link != "" {
			return link
		}
	}
	if m := prLinkRe.FindString(textBody); m != "" {
		return stripTracking(m)
	}
	return ""
}

// stripTracking drops query strings and fragments from PR links
func stripTracking(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		return link[:i]
	}
	return link
}

func extractNumber(subject, link string) string {
	if m := prNumberRe.FindStringSubmatch(subject); m != nil {
		return m[1]
	}
	if link != "" {
		if m := linkNumberRe.FindStringSubmatch(link); m != nil {
			return m[1]
		}
	}
	return ""
}

func extractStatus(subject, textBody string) string {
	content := strings.ToLower(subject + " " + textBody)

	switch {
	case strings.Contains(content, "merged"):
		return models.PRStatusMerged
	case strings.Contains(content, "closed"):
		return models.PRStatusClosed
	case strings.Contains(content, "updated"):
		return models.PRStatusUpdated
	default:
		return models.PRStatusOpened
	}
}
