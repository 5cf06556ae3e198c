package usecase

import (
	"fmt"
	"strings"

	"EventScanner/internal/domain"
)

// buildDigestMessage renders the run's events as a plain-text digest
// for outbound notification channels.
func buildDigestMessage(records []domain.EventRecord) string {
	if len(records) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Scraped %d events:\n\n", len(records)))
	for _, record := range records {
		sb.WriteString(fmt.Sprintf("- %s\n%s – %s\n", record.Title, record.StartDate, record.EndDate))
		if record.Version != "" {
			sb.WriteString(fmt.Sprintf("Version %s\n", record.Version))
		}
		if record.Sentiment != "" {
			sb.WriteString(fmt.Sprintf("Sentiment: %s\n", record.Sentiment))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
