package events_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan out events to receivers.")
	{
		evts := events.New()

		ch1 := evts.Acquire("one")
		ch2 := evts.Acquire("two")

		t.Logf("\tTest 0:\tWhen sending a message.")
		{
			evts.Send("viewer: block mined")

			for i, ch := range []chan string{ch1, ch2} {
				if msg := <-ch; msg != "viewer: block mined" {
					t.Fatalf("\t%s\tTest 0:\tShould receive the message on receiver %d, got %q.", failed, i, msg)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould receive the message on every receiver.", success)

			if evts.Acquire("one") != ch1 {
				t.Fatalf("\t%s\tTest 0:\tShould get the same channel for a known id.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get the same channel for a known id.", success)
		}

		t.Logf("\tTest 1:\tWhen releasing receivers.")
		{
			if err := evts.Release("one"); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to release: %v", failed, err)
			}
			if _, open := <-ch1; open {
				t.Fatalf("\t%s\tTest 1:\tShould close the released channel.", failed)
			}
			if err := evts.Release("one"); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould not release an unknown id.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould close and forget the receiver.", success)

			evts.Shutdown()
			if _, open := <-ch2; open || evts.Len() != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould close every receiver on shutdown.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould close every receiver on shutdown.", success)
		}
	}
}
