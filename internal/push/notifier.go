package push

// Notifier adapts the hub to the dispatcher's push channel: every
// connected back-office client receives the event.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) Push(declarationID, notifType, title, body string) {
	n.hub.Broadcast(Event{
		Type:          notifType,
		DeclarationID: declarationID,
		Title:         title,
		Body:          body,
	})
}
