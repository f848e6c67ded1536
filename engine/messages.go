package engine

import (
	"fmt"

	"github.com/wardenhq/warden/internal/dateparse"
	"github.com/wardenhq/warden/storage/model"
)

// DefaultColor is the accent color used on every posted notification.
const DefaultColor = "#8a8a8a"

// ControlsApproveDeny marks a notification as carrying approve/deny
// controls; the delivery layer decides how to render them.
const ControlsApproveDeny = "approve_deny"

func requestMessage(policy PolicyConfig, record model.TimedStatusRecord) Message {
	return Message{
		Title: fmt.Sprintf("%s Request", policy.DisplayName),
		Description: fmt.Sprintf(
			"Officer: <@%s>\nBegins: %s\nEnds: %s\nReason: %s\n\nStatus: %s",
			record.SubjectID,
			dateparse.Format(record.WindowStart),
			dateparse.Format(record.WindowEnd),
			record.Reason,
			record.Status,
		),
		Color:     DefaultColor,
		Thumbnail: policy.Thumbnail,
		Controls:  ControlsApproveDeny,
	}
}

// decidedMessage renders a decided (or extended) record, controls
// stripped.
func decidedMessage(policy PolicyConfig, record model.TimedStatusRecord) Message {
	decided := ""
	if record.DecidedBy != "" {
		decided = fmt.Sprintf("\nDecided by: <@%s>", record.DecidedBy)
	}
	return Message{
		Title: fmt.Sprintf("%s Request", policy.DisplayName),
		Description: fmt.Sprintf(
			"Officer: <@%s>\nBegins: %s\nEnds: %s\nReason: %s\n\nStatus: %s%s",
			record.SubjectID,
			dateparse.Format(record.WindowStart),
			dateparse.Format(record.WindowEnd),
			record.Reason,
			record.Status,
			decided,
		),
		Color:     DefaultColor,
		Thumbnail: policy.Thumbnail,
	}
}

func clearedMessage(policy PolicyConfig, record model.TimedStatusRecord) Message {
	return Message{
		Title: fmt.Sprintf("%s Request", policy.DisplayName),
		Description: fmt.Sprintf(
			"Officer: <@%s>\nBegins: %s\nEnds: %s\nReason: %s\n\nStatus: Cleared",
			record.SubjectID,
			dateparse.Format(record.WindowStart),
			dateparse.Format(record.WindowEnd),
			record.Reason,
		),
		Color:     DefaultColor,
		Thumbnail: policy.Thumbnail,
	}
}

func issuedMessage(policy PolicyConfig, record model.TimedStatusRecord) Message {
	return Message{
		Title: fmt.Sprintf("%s Issued", policy.DisplayName),
		Description: fmt.Sprintf(
			"Officer: <@%s>\nIssued by: <@%s>\nExpires: %s",
			record.SubjectID,
			record.IssuedBy,
			dateparse.Format(record.WindowEnd),
		),
		Color:     DefaultColor,
		Thumbnail: policy.Thumbnail,
	}
}

func statusUpdateMessage(policy PolicyConfig) Message {
	return Message{
		Title:       fmt.Sprintf("%s Update", policy.DisplayName),
		Description: fmt.Sprintf("Your %s request has been updated. Check the request post for details.", policy.DisplayName),
		Color:       DefaultColor,
	}
}

func issuedDirectMessage(policy PolicyConfig) Message {
	return Message{
		Title:       fmt.Sprintf("%s Issued", policy.DisplayName),
		Description: fmt.Sprintf("A %s has been issued against you. It will lift automatically when it expires.", policy.DisplayName),
		Color:       DefaultColor,
	}
}

func updatedDirectMessage(policy PolicyConfig) Message {
	return Message{
		Title:       fmt.Sprintf("%s Updated", policy.DisplayName),
		Description: fmt.Sprintf("Your %s has been updated. It will lift automatically when it expires.", policy.DisplayName),
		Color:       DefaultColor,
	}
}

func expiredDirectMessage(policy PolicyConfig) Message {
	return Message{
		Title:       fmt.Sprintf("%s Expired", policy.DisplayName),
		Description: fmt.Sprintf("Your %s has expired and has been lifted.", policy.DisplayName),
		Color:       DefaultColor,
	}
}
