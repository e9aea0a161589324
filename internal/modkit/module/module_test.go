package module

import "testing"

type pinger interface{ Ping() string }

type fakePort struct{}

func (fakePort) Ping() string { return "pong" }

type fakeModule struct{ ports any }

func (m fakeModule) Ports() any { return m.ports }
func (m fakeModule) Name() string { return "fake" }

type portBundle struct {
	P pinger
}

func TestPortsOf(t *testing.T) {
	// direct: Ports() itself implements the wanted interface
	direct := fakeModule{ports: fakePort{}}
	if p, ok := PortsOf[pinger](direct); !ok || p.Ping() != "pong" {
		t.Fatalf("direct lookup failed: %v", ok)
	}

	// bundled: interface lives on an exported struct field
	bundled := fakeModule{ports: portBundle{P: fakePort{}}}
	if p, ok := PortsOf[pinger](bundled); !ok || p.Ping() != "pong" {
		t.Fatalf("bundle lookup failed: %v", ok)
	}

	// absent
	if _, ok := PortsOf[pinger](fakeModule{ports: struct{ N int }{N: 1}}); ok {
		t.Fatal("lookup should miss when no field implements the port")
	}
	if _, ok := PortsOf[pinger](fakeModule{ports: nil}); ok {
		t.Fatal("nil ports should miss")
	}
}

func TestMustPortsOfPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing port")
		}
	}()
	MustPortsOf[pinger](fakeModule{ports: nil})
}

func TestRegistry(t *testing.T) {
	Reset()
	defer Reset()

	Register("fake", portBundle{P: fakePort{}})

	b, ok := PortsAs[portBundle]("fake")
	if !ok || b.P.Ping() != "pong" {
		t.Fatalf("PortsAs = %v, %v", b, ok)
	}
	if _, ok := PortsAs[portBundle]("missing"); ok {
		t.Fatal("unknown name should miss")
	}
	if _, ok := PortsAs[string]("fake"); ok {
		t.Fatal("wrong type should miss")
	}

	Reset()
	if _, ok := PortsAs[portBundle]("fake"); ok {
		t.Fatal("Reset should clear the registry")
	}
}
