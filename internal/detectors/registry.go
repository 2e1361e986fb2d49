package detectors

import "vmscan/internal/detect"

// RegisterBuiltins adds every built-in detector to reg, the same call a host
// embedding this module would make before layering its own detectors on top
//.
func RegisterBuiltins(reg *detect.Registry) {
	for _, d := range []detect.Detector{
		IsDeletable(),
		IsUpdatable(),
		UnprotectedDeletable(),
		UnprotectedUpdatable(),
		GroupSizeCheck(),
		CanCloseAccount(),
		CanCloseAsset(),
		MissingFeeCheck(),
		RekeyTo(),
		ConstantGtxn(),
		SelfAccess(),
		SenderAccess(),
	} {
		reg.Register(d)
	}
}
