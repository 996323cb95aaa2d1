package listener

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/pixil98/go-testutil"
)

type fakeConn struct {
	in  *bytes.Buffer
	out *bytes.Buffer
	err error
}

func (f *fakeConn) Read(p []byte) (int, error) {
	return f.in.Read(p)
}

func (f *fakeConn) Write(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.out.Write(p)
}

func TestCRLFReadWriter_Read(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want string
	}{
		"telnet line ending": {
			raw:  "look\r\n",
			want: "look\n",
		},
		"bare carriage return": {
			raw:  "look\r",
			want: "look\n",
		},
		"already normalized": {
			raw:  "look\n",
			want: "look\n",
		},
		"mixed endings": {
			raw:  "go north\r\nsay hi\r",
			want: "go north\nsay hi\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			conn := &fakeConn{in: bytes.NewBufferString(tt.raw), out: &bytes.Buffer{}}
			rw := newCRLFReadWriter(conn)

			got, err := io.ReadAll(rw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "normalized input", string(got), tt.want)
		})
	}
}

func TestCRLFReadWriter_Write(t *testing.T) {
	conn := &fakeConn{in: &bytes.Buffer{}, out: &bytes.Buffer{}}
	rw := newCRLFReadWriter(conn)

	n, err := rw.Write([]byte("You are in a cell.\nExits: north.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The reported length is the caller's, not the expanded one.
	testutil.AssertEqual(t, "written length", n, len("You are in a cell.\nExits: north.\n"))
	testutil.AssertEqual(t, "expanded output", conn.out.String(), "You are in a cell.\r\nExits: north.\r\n")
}

func TestCRLFReadWriter_WriteError(t *testing.T) {
	wantErr := errors.New("connection reset")
	conn := &fakeConn{in: &bytes.Buffer{}, out: &bytes.Buffer{}, err: wantErr}
	rw := newCRLFReadWriter(conn)

	n, err := rw.Write([]byte("hello\n"))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected write error, got %v", err)
	}
	testutil.AssertEqual(t, "written length on error", n, 0)
}
