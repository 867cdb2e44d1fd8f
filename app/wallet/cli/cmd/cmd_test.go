package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Should be able to run %v: %v: %s", args, err, out.String())
	}

	return strings.TrimSpace(out.String())
}

func Test_SignAndVerify(t *testing.T) {
	dir := t.TempDir()

	alice := execute(t, "", "generate", "-p", dir, "-a", "alice")
	bob := execute(t, "", "generate", "-p", dir, "-a", "bob")

	if !strings.HasPrefix(alice, "0x") || alice == bob {
		t.Fatalf("Should generate distinct public keys, got %s and %s", alice, bob)
	}

	if got := execute(t, "", "address", "-p", dir, "-a", "alice"); got != alice {
		t.Fatalf("Should print the same public key, got %s, exp %s", got, alice)
	}

	signed := execute(t, "", "sign", "-p", dir, "-a", "alice", "--to", bob, "--amount", "1.5", "--coin", "bwtoken")

	if !strings.Contains(signed, `"bwtoken"`) || !strings.Contains(signed, `1500000000`) {
		t.Fatalf("Should print the signed transfer, got %s", signed)
	}

	if got := execute(t, signed, "verify", "--file", "-"); got != "true" {
		t.Fatalf("Should verify the signed transfer, got %s", got)
	}

	forged := strings.Replace(signed, "1500000000", "9500000000", 1)
	if got := execute(t, forged, "verify", "--file", "-"); got != "false" {
		t.Fatalf("Should not verify a changed transfer, got %s", got)
	}
}
