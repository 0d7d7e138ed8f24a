package namemap_test

import (
	"errors"
	"testing"

	"github.com/croqaz/private-briefcase/namemap"
	"github.com/croqaz/private-briefcase/vaulterrors"
)

func TestValidateName(t *testing.T) {
	valid := []string{"report.pdf", "my-notes_v2.txt", "a"}
	for _, n := range valid {
		if err := namemap.ValidateName(n); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", n, err)
		}
	}

	invalid := []string{"", "has/slash", "has:colon", `has\backslash`, "has*star", "has?mark", `has"quote`, "has<lt", "has>gt", "has|pipe"}
	for _, n := range invalid {
		if err := namemap.ValidateName(n); !errors.Is(err, vaulterrors.ErrInvalidName) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", n, err)
		}
	}
}

func TestStorageID_IsDeterministicAndPrefixed(t *testing.T) {
	id1 := namemap.StorageID("report.pdf")
	id2 := namemap.StorageID("report.pdf")

	if id1 != id2 {
		t.Fatalf("StorageID not deterministic: %q != %q", id1, id2)
	}

	if id1[0] != 't' || len(id1) != 33 {
		t.Fatalf("StorageID malformed: %q", id1)
	}

	if namemap.StorageID("other.pdf") == id1 {
		t.Fatal("different names produced the same storage id")
	}
}

func TestPlainHash_DetectsDuplicateContent(t *testing.T) {
	a := namemap.PlainHash([]byte("same content"))
	b := namemap.PlainHash([]byte("same content"))
	c := namemap.PlainHash([]byte("different content"))

	if a != b {
		t.Fatal("identical content hashed differently")
	}

	if a == c {
		t.Fatal("different content hashed identically")
	}
}
