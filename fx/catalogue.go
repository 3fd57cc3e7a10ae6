package fx

// Category groups the 57 engines into the seven algorithmic families of
// spec §4.3.
type Category string

const (
	CategoryNone        Category = ""
	CategoryDynamics    Category = "Dynamics"
	CategoryFilters     Category = "Filters/EQ"
	CategoryDistortion  Category = "Distortion"
	CategoryModulation  Category = "Modulation"
	CategoryDelay       Category = "Reverb/Delay"
	CategorySpatial     Category = "Spatial"
	CategoryUtility     Category = "Utility"
)

// CatalogueEntry is one row of the authoritative id->name->category->
// parameter-count table in spec §4.3.1.
type CatalogueEntry struct {
	ID         int
	Name       string
	Category   Category
	ParamCount int
}

// Catalogue is the authoritative, stable id assignment from spec §4.3.1.
// An id's meaning never changes across releases (spec §3.1).
var Catalogue = []CatalogueEntry{
	{0, "Passthrough", CategoryNone, 0},
	{1, "Vintage Opto Compressor", CategoryDynamics, 8},
	{2, "Classic Compressor (VCA)", CategoryDynamics, 10},
	{3, "Transient Shaper", CategoryDynamics, 10},
	{4, "Noise Gate", CategoryDynamics, 8},
	{5, "Mastering Limiter", CategoryDynamics, 10},
	{6, "Dynamic EQ", CategoryDynamics, 8},
	{7, "Parametric EQ", CategoryFilters, 9},
	{8, "Vintage Console EQ", CategoryFilters, 7},
	{9, "Ladder Filter", CategoryFilters, 6},
	{10, "State-Variable Filter", CategoryFilters, 4},
	{11, "Formant Filter", CategoryFilters, 3},
	{12, "Envelope Filter", CategoryFilters, 6},
	{13, "Comb Resonator", CategoryFilters, 4},
	{14, "Vocal Formant Filter", CategoryFilters, 4},
	{15, "Vintage Tube Preamp", CategoryDistortion, 8},
	{16, "Wave Folder", CategoryDistortion, 5},
	{17, "Harmonic Exciter", CategoryDistortion, 3},
	{18, "Bit Crusher", CategoryDistortion, 3},
	{19, "Multiband Saturator", CategoryDistortion, 6},
	{20, "Muff Fuzz", CategoryDistortion, 3},
	{21, "Rodent Distortion", CategoryDistortion, 3},
	{22, "K-Style Overdrive", CategoryDistortion, 3},
	{23, "Digital Chorus", CategoryModulation, 5},
	{24, "Resonant Chorus", CategoryModulation, 7},
	{25, "Analog Phaser", CategoryModulation, 7},
	{26, "Ring Modulator", CategoryModulation, 3},
	{27, "Frequency Shifter", CategoryModulation, 3},
	{28, "Harmonic Tremolo", CategoryModulation, 5},
	{29, "Classic Tremolo", CategoryModulation, 4},
	{30, "Rotary Speaker", CategoryModulation, 5},
	{31, "Pitch Shifter", CategoryModulation, 4},
	{32, "Detune Doubler", CategoryModulation, 5},
	{33, "Intelligent Harmonizer", CategoryModulation, 7},
	{34, "Tape Echo", CategoryDelay, 6},
	{35, "Digital Delay", CategoryDelay, 6},
	{36, "Magnetic Drum Echo", CategoryDelay, 5},
	{37, "Bucket-Brigade Delay", CategoryDelay, 6},
	{38, "Buffer Repeat", CategoryDelay, 5},
	{39, "Plate Reverb", CategoryDelay, 6},
	{40, "Spring Reverb", CategoryDelay, 6},
	{41, "Convolution Reverb", CategoryDelay, 5},
	{42, "Shimmer Reverb", CategoryDelay, 6},
	{43, "Gated Reverb", CategoryDelay, 5},
	{44, "Stereo Widener", CategorySpatial, 4},
	{45, "Stereo Imager", CategorySpatial, 6},
	{46, "Dimension Expander", CategorySpatial, 4},
	{47, "Spectral Freeze", CategorySpatial, 4},
	{48, "Spectral Gate", CategorySpatial, 5},
	{49, "Phased Vocoder", CategorySpatial, 5},
	{50, "Granular Cloud", CategorySpatial, 6},
	{51, "Chaos Generator", CategorySpatial, 5},
	{52, "Feedback Network", CategorySpatial, 6},
	{53, "Mid-Side Processor", CategoryUtility, 10},
	{54, "Gain Utility", CategoryUtility, 4},
	{55, "Mono Maker", CategoryUtility, 3},
	{56, "Phase Align", CategoryUtility, 10},
}

// MaxEngineID is the highest valid engine id (spec §3.1).
const MaxEngineID = 56

// LookupCatalogue returns the catalogue row for id, and false if id is out
// of [0, 56].
func LookupCatalogue(id int) (CatalogueEntry, bool) {
	if id < 0 || id > MaxEngineID {
		return CatalogueEntry{}, false
	}
	return Catalogue[id], true
}
