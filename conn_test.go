package fakeinv

import (
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/session"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/login"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// testConn is a session.Conn that reads scripted packets and records writes.
// Methods it does not override panic through the nil embedded interface.
type testConn struct {
	session.Conn
	name   string
	in     []packet.Packet
	out    []packet.Packet
	closed bool
}

func (c *testConn) IdentityData() login.IdentityData {
	return login.IdentityData{DisplayName: c.name}
}

func (c *testConn) ReadPacket() (packet.Packet, error) {
	if len(c.in) == 0 {
		return nil, io.EOF
	}
	pk := c.in[0]
	c.in = c.in[1:]
	return pk, nil
}

func (c *testConn) WritePacket(pk packet.Packet) error {
	c.out = append(c.out, pk)
	return nil
}

func (c *testConn) Close() error {
	c.closed = true
	return nil
}

// openConn binds v to a fresh inventory and opens its window on a wrapped
// connection.
func openConn(h *harness, v *testViewer, f Flavor) (*Conn, *testConn, *Inventory) {
	tc := &testConn{name: v.Name()}
	c := h.m.wrapConn(tc)
	inv := h.m.NewInventory(f)
	inv.Open(v)
	c.openWindow(inv)
	tc.out = nil
	return c, tc, inv
}

func takeFrom(requestID int32, container, slot byte) protocol.ItemStackRequest {
	take := &protocol.TakeStackRequestAction{}
	take.Count = 1
	take.Source = slotInfo(container, slot)
	take.Destination = slotInfo(protocol.ContainerCombinedHotBarAndInventory, 9)
	return protocol.ItemStackRequest{
		RequestID: requestID,
		Actions:   []protocol.StackRequestAction{take},
	}
}

func TestConnOpenWindowCyclesIDs(t *testing.T) {
	h := newHarness(t)
	tc := &testConn{name: "alice"}
	c := h.m.wrapConn(tc)
	inv := h.m.NewInventory(nil)

	var ids []byte
	for range 12 {
		c.openWindow(inv)
	}
	for _, pk := range tc.out {
		switch pk := pk.(type) {
		case *packet.ContainerOpen:
			ids = append(ids, pk.WindowID)
			if pk.ContainerType != protocol.ContainerTypeContainer {
				t.Errorf("container type = %v", pk.ContainerType)
			}
		case *packet.InventoryContent:
			if len(pk.Content) != int(SmallChest) {
				t.Errorf("content has %d slots, want %d", len(pk.Content), SmallChest)
			}
		}
	}

	want := []byte{100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 100, 101}
	if !slices.Equal(ids, want) {
		t.Errorf("window IDs = %v, want %v", ids, want)
	}
	if _, id, ok := c.current(); !ok || id != 101 {
		t.Errorf("current window = %d, %v", id, ok)
	}
}

func TestConnContainerClose(t *testing.T) {
	tests := []struct {
		name     string
		windowID byte
		consumed bool
	}{
		{"FakeWindow", firstWindowID, true},
		{"OtherWindow", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			v := alice()
			h.add(v)
			c, tc, inv := openConn(h, v, nil)

			closePk := &packet.ContainerClose{WindowID: tt.windowID}
			tc.in = []packet.Packet{closePk}
			pk, err := c.ReadPacket()
			if tt.consumed {
				if !errors.Is(err, io.EOF) {
					t.Fatalf("ReadPacket() = %v, %v; want the close consumed", pk, err)
				}
			} else if pk != closePk {
				t.Fatalf("ReadPacket() = %v, %v; want the close passed on", pk, err)
			}

			var acks []*packet.ContainerClose
			for _, pk := range tc.out {
				if ack, ok := pk.(*packet.ContainerClose); ok {
					acks = append(acks, ack)
				}
			}
			h.flush()

			if !tt.consumed {
				if len(acks) != 0 {
					t.Errorf("acknowledged a foreign close: %+v", acks)
				}
				if cur, ok := h.m.Binding("alice"); !ok || cur != inv {
					t.Error("binding dropped for a foreign close")
				}
				return
			}
			if len(acks) != 1 || acks[0].WindowID != tt.windowID || acks[0].ServerSide {
				t.Errorf("acks = %+v, want one client-side ack", acks)
			}
			if _, ok := h.m.Binding("alice"); ok {
				t.Error("viewer still bound after closing the window")
			}
			if !inv.Closed() || len(v.closed) != 1 {
				t.Errorf("Closed() = %v, window closes = %d", inv.Closed(), len(v.closed))
			}
			if _, _, ok := c.current(); ok {
				t.Error("connection still holds the window")
			}
		})
	}
}

func TestConnItemStackRequest(t *testing.T) {
	h := newHarness(t)
	v := alice()
	h.add(v)

	var clicked []int
	c, tc, _ := openConn(h, v, FlavorFuncs{
		TransactionFunc: func(_ *Inventory, _ Viewer, _, _ item.Stack, slot int) bool {
			clicked = append(clicked, slot)
			return false
		},
	})

	req := &packet.ItemStackRequest{Requests: []protocol.ItemStackRequest{
		takeFrom(1, protocol.ContainerLevelEntity, 4),
		takeFrom(2, protocol.ContainerHotBar, 0),
		takeFrom(3, protocol.ContainerLevelEntity, 8),
	}}
	tc.in = []packet.Packet{req}

	pk, err := c.ReadPacket()
	if err != nil || pk != req {
		t.Fatalf("ReadPacket() = %v, %v; want the request passed on", pk, err)
	}
	if len(req.Requests) != 1 || req.Requests[0].RequestID != 2 {
		t.Errorf("passed requests = %+v, want only request 2", req.Requests)
	}

	if len(tc.out) != 1 {
		t.Fatalf("wrote %d packets before the tick, want 1", len(tc.out))
	}
	resp, ok := tc.out[0].(*packet.ItemStackResponse)
	if !ok {
		t.Fatalf("first packet = %T, want *packet.ItemStackResponse", tc.out[0])
	}
	var ids []int32
	for _, r := range resp.Responses {
		if r.Status != protocol.ItemStackResponseStatusError {
			t.Errorf("request %d status = %v", r.RequestID, r.Status)
		}
		ids = append(ids, r.RequestID)
	}
	if !slices.Equal(ids, []int32{1, 3}) {
		t.Errorf("rejected requests = %v, want [1 3]", ids)
	}

	h.flush()
	if !slices.Equal(clicked, []int{4, 8}) {
		t.Errorf("clicked slots = %v, want [4 8]", clicked)
	}
	last, ok := tc.out[len(tc.out)-1].(*packet.InventorySlot)
	if !ok || last.WindowID != protocol.WindowIDUI || last.Slot != 0 {
		t.Errorf("last packet = %+v, want the cursor cleared", tc.out[len(tc.out)-1])
	}
}

func TestConnItemStackRequestConsumed(t *testing.T) {
	h := newHarness(t)
	v := alice()
	h.add(v)
	c, tc, _ := openConn(h, v, nil)

	tc.in = []packet.Packet{&packet.ItemStackRequest{Requests: []protocol.ItemStackRequest{
		takeFrom(7, protocol.ContainerLevelEntity, 0),
	}}}
	if pk, err := c.ReadPacket(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadPacket() = %v, %v; want the request consumed", pk, err)
	}
}

func TestConnItemStackRequestWithoutWindow(t *testing.T) {
	h := newHarness(t)
	tc := &testConn{name: "alice"}
	c := h.m.wrapConn(tc)

	req := &packet.ItemStackRequest{Requests: []protocol.ItemStackRequest{
		takeFrom(1, protocol.ContainerLevelEntity, 0),
	}}
	tc.in = []packet.Packet{req}
	if pk, err := c.ReadPacket(); err != nil || pk != req {
		t.Errorf("ReadPacket() = %v, %v; want the request passed on", pk, err)
	}
	if len(tc.out) != 0 || len(req.Requests) != 1 {
		t.Errorf("request touched without an open window: out = %v", tc.out)
	}
}

func TestConnIgnoresOtherInventories(t *testing.T) {
	h := newHarness(t)
	tc := &testConn{name: "alice"}
	c := h.m.wrapConn(tc)
	open := h.m.NewInventory(nil)
	other := h.m.NewInventory(nil)
	c.openWindow(open)
	tc.out = nil

	c.syncSlots(other, []int{0, 1})
	c.closeWindow(other)
	if len(tc.out) != 0 {
		t.Fatalf("wrote %d packets for an inventory that is not open", len(tc.out))
	}

	c.syncSlots(open, []int{0, 1})
	if len(tc.out) != 2 {
		t.Fatalf("synced %d slots, want 2", len(tc.out))
	}
	for i, pk := range tc.out {
		s, ok := pk.(*packet.InventorySlot)
		if !ok || s.WindowID != uint32(firstWindowID) || s.Slot != uint32(i) {
			t.Errorf("packet %d = %+v", i, pk)
		}
	}

	tc.out = nil
	c.closeWindow(open)
	if len(tc.out) != 1 {
		t.Fatalf("close wrote %d packets, want 1", len(tc.out))
	}
	if cl, ok := tc.out[0].(*packet.ContainerClose); !ok || cl.WindowID != firstWindowID || !cl.ServerSide {
		t.Errorf("close packet = %+v", tc.out[0])
	}
	if _, _, ok := c.current(); ok {
		t.Error("window still open after closeWindow")
	}
}

func TestConnCloseDropsRegistration(t *testing.T) {
	h := newHarness(t)
	tc := &testConn{name: "alice"}
	c := h.m.wrapConn(tc)
	if h.m.conn("alice") != c {
		t.Fatal("connection not registered")
	}

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if !tc.closed {
		t.Error("underlying connection not closed")
	}
	if h.m.conn("alice") != nil {
		t.Error("connection still registered after Close")
	}
}
