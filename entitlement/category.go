package entitlement

// Key identifies one gated dataset category.
type Key string

const (
	// SwingWeightData gates the swing-weight measurement tables.
	SwingWeightData Key = "swing_weight_data"
	// BBCORData gates the BBCOR bat dataset.
	BBCORData Key = "bbcor_data"
	// USSSAData gates the USSSA bat dataset.
	USSSAData Key = "usssa_data"
	// USAData gates the USA bat dataset.
	USAData Key = "usa_data"
	// FastpitchData gates the fastpitch bat dataset.
	FastpitchData Key = "fastpitch_data"

	// FullAccess is the wildcard category. Holding it satisfies every
	// permission check regardless of the requested category, including
	// category strings the registry has never seen.
	FullAccess Key = "full_access"
)

// registered is the closed set of category keys the resolver will ever
// emit. Ledger entries under any other key are ignored, never a fault.
var registered = map[Key]struct{}{
	SwingWeightData: {},
	BBCORData:       {},
	USSSAData:       {},
	USAData:         {},
	FastpitchData:   {},
	FullAccess:      {},
}

// Known reports whether k belongs to the registered category set.
func Known(k Key) bool {
	_, ok := registered[k]
	return ok
}

// Categories returns the registered category keys in stable order.
func Categories() []Key {
	return []Key{
		SwingWeightData,
		BBCORData,
		USSSAData,
		USAData,
		FastpitchData,
		FullAccess,
	}
}
