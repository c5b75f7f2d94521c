package models

import "time"

// the dashboard lists below go through utils.ApplyListing

func openState(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (c CategoryDTO) ListingText() []string { return []string{c.Name, c.Slug} }
func (c CategoryDTO) ListingGroup() string { return c.Id.String() }
func (c CategoryDTO) ListingStatus() string { return "" }
func (c CategoryDTO) ListingDate() time.Time { return c.CreatedAt }

func (b BusinessDTO) ListingText() []string {
	texts := []string{b.Name, optional(b.Description)}
	if b.Category != nil {
		texts = append(texts, b.Category.Name)
	}
	return texts
}
func (b BusinessDTO) ListingGroup() string { return b.CategoryId.String() }
func (b BusinessDTO) ListingStatus() string { return openState(b.IsOpen) }
func (b BusinessDTO) ListingDate() time.Time { return b.CreatedAt }

func (s MenuSectionDTO) ListingText() []string {
	texts := []string{s.Name}
	if s.Business != nil {
		texts = append(texts, s.Business.Name)
	}
	return texts
}
func (s MenuSectionDTO) ListingGroup() string { return s.BusinessId.String() }
func (s MenuSectionDTO) ListingStatus() string { return "" }
func (s MenuSectionDTO) ListingDate() time.Time { return s.CreatedAt }

func (m MenuItemDTO) ListingText() []string {
	texts := []string{m.Name, optional(m.Description)}
	if m.Section != nil {
		texts = append(texts, m.Section.Name)
	}
	return texts
}
func (m MenuItemDTO) ListingGroup() string { return m.MenuSectionId.String() }
func (m MenuItemDTO) ListingStatus() string { return openState(m.IsAvailable) }
func (m MenuItemDTO) ListingDate() time.Time { return m.CreatedAt }

func (u UserDTO) ListingText() []string { return []string{optional(u.Name), u.Email, optional(u.Phone)} }
func (u UserDTO) ListingGroup() string { return "" }
func (u UserDTO) ListingStatus() string { return "" }
func (u UserDTO) ListingDate() time.Time { return u.CreatedAt }

func (o OrderDTO) ListingText() []string {
	texts := []string{o.Phone, string(o.Status)}
	if o.Business != nil {
		texts = append(texts, o.Business.Name)
	}
	return texts
}
func (o OrderDTO) ListingGroup() string { return o.BusinessId.String() }
func (o OrderDTO) ListingStatus() string { return string(o.Status) }
func (o OrderDTO) ListingDate() time.Time { return o.CreatedAt }
