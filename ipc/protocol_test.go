package ipc

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`{"unitInformation": []}`, KindConfig},
		{`{"turnInfo": [0, 3, 0], "p1Stats": [30, 5, 5, 0]}`, KindDeploy},
		{`{"turnInfo": [1, 3, 12]}`, KindAction},
		{`{"turnInfo": [2, 40, 0]}`, KindEnd},
	}
	for _, tc := range tests {
		f, err := Classify([]byte(tc.line))
		if err != nil {
			t.Errorf("Classify(%s): %v", tc.line, err)
			continue
		}
		if f.Kind != tc.want {
			t.Errorf("Classify(%s).Kind = %q, want %q", tc.line, f.Kind, tc.want)
		}
		if string(f.Data) != tc.line {
			t.Errorf("Data = %s, want the original line", f.Data)
		}
	}

	for _, bad := range []string{`not json`, `{"turnInfo": []}`, `{"turnInfo": [7, 0, 0]}`, `{"turnInfo": [-1]}`} {
		if _, err := Classify([]byte(bad)); !errors.Is(err, ErrMalformedFrame) {
			t.Errorf("Classify(%s) err = %v, want ErrMalformedFrame", bad, err)
		}
	}
}

func TestReadFrameSkipsBlankLines(t *testing.T) {
	sc := NewScanner(strings.NewReader("\n  \r\n{\"turnInfo\":[1,0,0]}\n"))
	f, err := ReadFrame(sc)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Kind != KindAction {
		t.Errorf("Kind = %q, want action", f.Kind)
	}
	if _, err := ReadFrame(sc); !errors.Is(err, io.EOF) {
		t.Errorf("second ReadFrame err = %v, want io.EOF", err)
	}
}

func TestReadFrameTooLong(t *testing.T) {
	line := `{"pad":"` + strings.Repeat("x", MaxLineSize) + `"}` + "\n"
	_, err := ReadFrame(NewScanner(strings.NewReader(line)))
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, ErrMalformedFrame) {
		t.Errorf("err = %v, want a transport error", err)
	}
}

func TestCommandRoundTrip(t *testing.T) {
	tc := TurnCommands{
		Structures: []Command{{"FF", 0, 13}, {"UP", 12, 10}},
	}
	var buf bytes.Buffer
	if err := (&Connection{w: &buf}).Send(*tc.Reply()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	want := "[[\"FF\",0,13],[\"UP\",12,10]]\n[]\n"
	if buf.String() != want {
		t.Errorf("wire = %q, want %q", buf.String(), want)
	}

	var back []Command
	first, _, _ := strings.Cut(buf.String(), "\n")
	if err := json.Unmarshal([]byte(first), &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back) != 2 || back[1] != (Command{"UP", 12, 10}) {
		t.Errorf("decoded %v", back)
	}
	var c Command
	if err := json.Unmarshal([]byte(`["PI", 3]`), &c); err == nil {
		t.Error("expected an error for a short command")
	}
}
