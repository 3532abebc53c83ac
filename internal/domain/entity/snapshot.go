package entity

// Snapshot is a read-only view of the rebuilt state handed to the
// presentation layer. It is a deep copy; mutating it never touches the
// rebuilder's own collections.
type Snapshot struct {
	Airlines []*Airline
	Flights  []*Flight
	Wallets  []*PassengerWallet
}
