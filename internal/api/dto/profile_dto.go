package dto

// UpdateProfileRequest carries partial profile fields. Pointer fields
// distinguish "omitted" from "set to empty"; only supplied fields merge.
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	City        *string `json:"city"`
	AvatarURL   *string `json:"avatar_url"`
}

// Fields returns the document-field map for the supplied values.
func (r UpdateProfileRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.FullName != nil {
		fields["fullName"] = *r.FullName
	}
	if r.PhoneNumber != nil {
		fields["phoneNumber"] = *r.PhoneNumber
	}
	if r.City != nil {
		fields["city"] = *r.City
	}
	if r.AvatarURL != nil {
		fields["avatarUrl"] = *r.AvatarURL
	}
	return fields
}
