package notify

import "testing"

func TestBroadcaster(t *testing.T) {
	t.Run("subscribers receive published changes", func(t *testing.T) {
		b := New()
		ch := b.Subscribe()

		b.Publish(Change{UserID: "u1", Kind: TransactionsChanged})

		select {
		case c := <-ch:
			if c.UserID != "u1" || c.Kind != TransactionsChanged {
				t.Errorf("Unexpected change: %+v", c)
			}
		default:
			t.Error("Expected a buffered change")
		}
	})

	t.Run("publish never blocks on a full subscriber", func(t *testing.T) {
		b := New()
		b.Subscribe()

		// Far more events than the channel buffer holds.
		for i := 0; i < 100; i++ {
			b.Publish(Change{UserID: "u1", Kind: BudgetsChanged})
		}
	})

	t.Run("nil broadcaster drops silently", func(t *testing.T) {
		var b *Broadcaster
		b.Publish(Change{UserID: "u1", Kind: TransactionsChanged})
	})
}
