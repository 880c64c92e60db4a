package translator

// deadzone implements §4.5.7's formula, grounded in
// original_source/src/event_reader.rs (lines computing
// `distance_from_center` and the final quantized result). v is the raw
// axis reading; axis16Bit selects between the 8-bit and 16-bit reading
// interpretation; d is the deadzone in 0..128 "canonical units".
//
// Go's integer division already truncates toward zero exactly like
// Rust's. For positive distance `(distance + 1999) / 2000` rounds up
// (14400 gives 8); for negative distance the +1999 pulls the value
// toward zero before truncation, so the result is not symmetric:
// -10000 gives -4 where +10000 gives 5.
func deadzone(v int32, axis16Bit bool, d int) int32 {
	var distance int32
	if axis16Bit {
		distance = v
	} else {
		distance = (v - 128) * 200
	}

	threshold := int32(d) * 200
	if abs32(distance) <= threshold {
		return 0
	}
	return (distance + 1999) / 2000
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// signClamp reduces a deadzone-quantized value to {-1, 0, +1} for
// bind-mode sticks (§4.5.4).
func signClamp(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
