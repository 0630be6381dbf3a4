package models

import "strconv"

// ProgrammeType is the coarse reporting category derived from EXPA
// programme ids. Only two types exist; anything else is unclassified and
// excluded from programme-bucketed aggregates.
type ProgrammeType string

const (
	ProgrammeTypeOGV  ProgrammeType = "ogv"
	ProgrammeTypeOGT  ProgrammeType = "ogt"
	ProgrammeTypeNone ProgrammeType = ""
)

const (
	ProgrammeIDOGV    int64 = 7
	ProgrammeIDOGT    int64 = 8
	ProgrammeIDOGTAlt int64 = 9
)

var programmeIDToType = map[int64]ProgrammeType{
	ProgrammeIDOGV:    ProgrammeTypeOGV,
	ProgrammeIDOGT:    ProgrammeTypeOGT,
	ProgrammeIDOGTAlt: ProgrammeTypeOGT,
}

// IsKnownProgrammeID reports whether id belongs to the fixed programme
// enumeration.
func IsKnownProgrammeID(id int64) bool {
	_, ok := programmeIDToType[id]
	return ok
}

// ProgrammeTypeFromID classifies a programme id; unrecognized ids
// classify to ProgrammeTypeNone.
func ProgrammeTypeFromID(id int64) ProgrammeType {
	return programmeIDToType[id]
}

// ProgrammeTypeFromSelected classifies a person's selected programme
// list. The OGV id wins over the OGT ids when both are present.
func ProgrammeTypeFromSelected(programmes []string) ProgrammeType {
	ogv := strconv.FormatInt(ProgrammeIDOGV, 10)
	for _, p := range programmes {
		if p == ogv {
			return ProgrammeTypeOGV
		}
	}

	ogt := strconv.FormatInt(ProgrammeIDOGT, 10)
	ogtAlt := strconv.FormatInt(ProgrammeIDOGTAlt, 10)
	for _, p := range programmes {
		if p == ogt || p == ogtAlt {
			return ProgrammeTypeOGT
		}
	}

	return ProgrammeTypeNone
}
