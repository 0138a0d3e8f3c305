package shared

import "testing"

func TestEVMAddressFromPublicKey(t *testing.T) {
	// Generator point, i.e. the public key of private key 1.
	compressed := "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

	address, err := EVMAddressFromPublicKey(compressed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if address != "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf" {
		t.Fatalf("unexpected EVM address: %s", address)
	}
}

func TestEVMAddressFromPublicKeyInvalid(t *testing.T) {
	for _, raw := range []string{"", "zz", "0279be"} {
		if _, err := EVMAddressFromPublicKey(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestChecksumEVMAddress(t *testing.T) {
	checksummed, err := ChecksumEVMAddress("0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checksummed != "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf" {
		t.Fatalf("unexpected checksum: %s", checksummed)
	}

	if IsEVMAddress("0.0.1234") {
		t.Fatal("expected account ID not to be an EVM address")
	}
	if IsEVMAddress("7e5f4552091a69125d5dfcb7b8c2659029395bdf") {
		t.Fatal("expected unprefixed hex not to be accepted")
	}
	if _, err := ChecksumEVMAddress("0x1234"); err == nil {
		t.Fatal("expected error for short address")
	}
}
