package portfolio

// UserData is the full aggregate stored in the durable tier.
type UserData struct {
	Profile     ProfileData  `json:"profile"`
	SocialLinks []SocialLink `json:"social_links"`
	Sections    []Section    `json:"sections"`
	Theme       ThemeState   `json:"theme"`
	Projects    []Project    `json:"projects"`
}

func (d UserData) Clone() UserData {
	return UserData{
		Profile:     d.Profile,
		SocialLinks: append([]SocialLink{}, d.SocialLinks...),
		Sections:    CloneSections(d.Sections),
		Theme:       d.Theme,
		Projects:    append([]Project{}, d.Projects...),
	}
}

// BoxLayout is the order/size-only view of a box kept in the volatile tier.
type BoxLayout struct {
	ID   string `json:"id"`
	Size Size   `json:"size"`
}

type SectionLayout struct {
	ID    string      `json:"id"`
	Boxes []BoxLayout `json:"boxes"`
}

// Layout is the structure of a portfolio without content: section order,
// box order and box sizes.
type Layout []SectionLayout

func LayoutOf(sections []Section) Layout {
	out := make(Layout, len(sections))
	for i, s := range sections {
		boxes := make([]BoxLayout, len(s.Boxes))
		for j, b := range s.Boxes {
			boxes[j] = BoxLayout{ID: b.ID(), Size: b.Size()}
		}
		out[i] = SectionLayout{ID: s.ID, Boxes: boxes}
	}
	return out
}

// ApplyLayout overlays layout onto content-bearing sections and returns the
// merged result; the input is not modified.
//
// Sections and boxes are matched by id. Content decides what exists: entries
// only present in layout are dropped, and entries missing from layout keep
// their relative order after the ones layout places. Layout decides order and
// size. An invalid size in layout leaves the stored size alone.
func ApplyLayout(sections []Section, layout Layout) []Section {
	if len(layout) == 0 {
		return CloneSections(sections)
	}

	byID := make(map[string]Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}

	out := make([]Section, 0, len(sections))
	placed := make(map[string]bool, len(sections))
	for _, sl := range layout {
		s, ok := byID[sl.ID]
		if !ok || placed[sl.ID] {
			continue
		}
		placed[sl.ID] = true
		out = append(out, overlaySection(s, sl))
	}
	for _, s := range sections {
		if !placed[s.ID] {
			out = append(out, s.Clone())
		}
	}
	return out
}

func overlaySection(s Section, sl SectionLayout) Section {
	boxByID := make(map[string]ContentBox, len(s.Boxes))
	for _, b := range s.Boxes {
		boxByID[b.ID()] = b
	}

	merged := Section{ID: s.ID, Title: s.Title, Boxes: make([]ContentBox, 0, len(s.Boxes))}
	placed := make(map[string]bool, len(s.Boxes))
	for _, bl := range sl.Boxes {
		b, ok := boxByID[bl.ID]
		if !ok || placed[bl.ID] {
			continue
		}
		placed[bl.ID] = true
		if bl.Size.Valid() {
			b = b.WithSize(bl.Size)
		}
		merged.Boxes = append(merged.Boxes, b)
	}
	for _, b := range s.Boxes {
		if !placed[b.ID()] {
			merged.Boxes = append(merged.Boxes, b)
		}
	}
	return merged
}
