package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Anurag9000/Gram-Connect/internal/domain/model"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
)

func TestCompose(t *testing.T) {
	Convey("Given a person and an assignment", t, func() {
		p := model.Person{ID: "p1", Name: "Asha"}
		a := model.Assignment{
			ID:      "a1",
			Title:   "Fix handpump",
			Village: "Rampur",
			Start:   time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
			End:     time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC),
		}

		Convey("the message greets the person by name", func() {
			m := Compose(p, a)
			So(m.Text, ShouldStartWith, "Hello Asha, you have been assigned to: 'Fix handpump' in Rampur.")
			So(m.PersonID, ShouldEqual, "p1")
			So(m.AssignmentID, ShouldEqual, "a1")
		})

		Convey("missing name and village fall back", func() {
			p.Name = ""
			a.Village = ""
			m := Compose(p, a)
			So(m.Text, ShouldStartWith, "Hello p1, you have been assigned to: 'Fix handpump' in your area.")
		})
	})
}

func TestLogNotifier(t *testing.T) {
	Convey("The log notifier writes the message text", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithFormat("json"), logger.WithWriter(&buf)), ShouldBeNil)
		defer func() { _ = logger.Init() }()

		n := NewLogNotifier()
		err := n.Notify(context.Background(), Message{AssignmentID: "a1", PersonID: "p1", Text: "Hello Asha"})
		So(err, ShouldBeNil)
		So(n.Close(), ShouldBeNil)

		line := strings.TrimSpace(buf.String())
		var rec map[string]any
		So(json.Unmarshal([]byte(line), &rec), ShouldBeNil)
		So(rec["msg"], ShouldEqual, "notification")
		So(rec["text"], ShouldEqual, "Hello Asha")
		So(rec["component"], ShouldEqual, "notify")
	})
}

func TestNATSNotifier(t *testing.T) {
	Convey("Connecting to an unreachable server fails", t, func() {
		_, err := NewNATS("nats://127.0.0.1:1", "gramconnect.assignments")
		So(err, ShouldNotBeNil)
	})

	Convey("A closed notifier refuses to publish", t, func() {
		n := &NATSNotifier{subject: "x", log: logger.Named("notify")}
		So(n.Close(), ShouldBeNil)
		err := n.Notify(context.Background(), Message{})
		So(errors.Is(err, ErrNotConnected), ShouldBeTrue)
	})
}
