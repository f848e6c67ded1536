// Package delivery provides concrete implementations of the engine's
// delivery interfaces: a notifier that writes messages to the log and a
// directory backed by static configuration.
package delivery

import (
	"fmt"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/storage/model"
)

// LogNotifier implements engine.Notifier by writing every message to the
// log. Posted messages get synthetic ids so edits can be correlated.
type LogNotifier struct {
	seq      atomic.Int64
	mu       sync.Mutex
	posted   map[string]engine.Message
	directMu sync.Mutex
	// Unreachable lists subject ids direct messages cannot reach.
	Unreachable map[string]bool
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{posted: make(map[string]engine.Message)}
}

// PostMessage implements the engine.Notifier interface.
func (n *LogNotifier) PostMessage(channelID string, msg engine.Message) (model.MessageRef, error) {
	id := fmt.Sprintf("%d", n.seq.Add(1))
	n.mu.Lock()
	n.posted[channelID+"/"+id] = msg
	n.mu.Unlock()
	log.WithFields(log.Fields{
		"channel": channelID,
		"message": id,
		"title":   msg.Title,
	}).Info(msg.Description)
	return model.MessageRef{ChannelID: channelID, MessageID: id}, nil
}

// EditMessage implements the engine.Notifier interface.
func (n *LogNotifier) EditMessage(ref model.MessageRef, msg engine.Message) error {
	key := ref.ChannelID + "/" + ref.MessageID
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.posted[key]; !ok {
		return engine.DeliveryErrorFmt("no message %s in channel %s", ref.MessageID, ref.ChannelID)
	}
	n.posted[key] = msg
	log.WithFields(log.Fields{
		"channel": ref.ChannelID,
		"message": ref.MessageID,
		"title":   msg.Title,
	}).Info(msg.Description)
	return nil
}

// SendDirect implements the engine.Notifier interface.
func (n *LogNotifier) SendDirect(subjectID string, msg engine.Message) error {
	n.directMu.Lock()
	unreachable := n.Unreachable[subjectID]
	n.directMu.Unlock()
	if unreachable {
		return engine.DeliveryErrorFmt("subject %s cannot be reached directly", subjectID)
	}
	log.WithFields(log.Fields{
		"subject": subjectID,
		"title":   msg.Title,
	}).Info(msg.Description)
	return nil
}
