package service

// FillInHoles applies the post-resolution defaults described in §3's
// invariants, grounded on UniService._fill_in_holes: name derivation,
// hostname mirroring name when unset, and Dockerfile fallback discovery is
// handled by the project resolver (it alone knows the descriptor's
// directory), so this only covers the part scoped to the Service itself.
func (s *Service) FillInHoles() {
	if s.Name == "" {
		if name, ok := s.Container["name"].(string); ok && name != "" {
			s.Name = name
		} else {
			s.Name = s.Image.Image
		}
	}
	if len(s.Container) > 0 {
		if _, ok := s.Container["hostname"]; !ok {
			s.Container["hostname"] = s.Name
		}
	}
}
