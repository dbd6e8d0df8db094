// Package fakeinv provides fake chest inventories for Dragonfly servers.
//
// A fake inventory is a container window with no real block behind it. The
// chest the client needs is drawn near the player with client-only block
// updates and removed again when the window closes. It is used for menus,
// shops and dialogs whose slots are buttons rather than storage:
//   - Small (27 slot) and large (54 slot) chests
//   - Flavors deciding contents and click handling
//   - Transitions between inventories without the client flickering
//   - A single tick loop owning all inventory state
//   - Per-player window IDs kept apart from Dragonfly's own windows
//
// # Quick Start
//
// Create a manager and route connections and players through it:
//
//	m := fakeinv.NewBuilder().Logger(log).Init()
//
//	conf, _ := userConf.Config(log)
//	fakeinv.WrapListeners(&conf, m)
//	srv := conf.New()
//	srv.Listen()
//
//	for p := range srv.Accept() {
//	    m.Track(p)
//	    p.Handle(m.NewHandler(nil))
//	}
//
// # Flavors
//
// A Flavor fills the inventory and reacts to clicks:
//
//	inv := m.NewInventory(fakeinv.FlavorFuncs{
//	    PopulateFunc: func(inv *fakeinv.Inventory) {
//	        inv.SetItemAt(5, 2, item.NewStack(item.Diamond{}, 1).WithCustomName("Buy"))
//	        inv.Fill(item.NewStack(block.StainedGlassPane{}, 1))
//	    },
//	    TransactionFunc: func(inv *fakeinv.Inventory, v fakeinv.Viewer, src, dst item.Stack, slot int) bool {
//	        return false
//	    },
//	}, fakeinv.WithTitle("Shop"))
//
//	m.OpenFor(inv, p)
//
// # Threading
//
// Open, Close and Transition must run on the tick loop. From flavor callbacks
// call them directly; from anywhere else use Manager.OpenFor, CloseFor,
// TransitionFor or Manager.Exec.
package fakeinv

// Version is the fakeinv version.
const Version = "1.0.0"
