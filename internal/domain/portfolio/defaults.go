package portfolio

// DefaultUserData is the starting portfolio for a user with nothing stored.
// displayName comes from the identity provider.
func DefaultUserData(displayName string) UserData {
	name := displayName
	if name == "" {
		name = "New User"
	}
	return UserData{
		Profile: ProfileData{
			Name:     name,
			Username: UsernameFromName(displayName),
			Bio:      "Musician",
			Location: "",
			Avatar:   "/placeholder.svg?height=144&width=144",
		},
		SocialLinks: []SocialLink{
			{ID: "1", Platform: "Instagram", URL: "https://instagram.com"},
			{ID: "2", Platform: "YouTube", URL: "https://youtube.com"},
			{ID: "3", Platform: "Email", URL: "mailto:hello@example.com"},
		},
		Sections: DefaultSections(),
		Theme:    DefaultTheme(),
		Projects: []Project{},
	}
}

func DefaultSections() []Section {
	return []Section{
		{
			ID:    "portfolio",
			Title: "Portfolio",
			Boxes: []ContentBox{
				NewContentBoxWithID("projects", "Projects", SizeLarge, ProjectsRef{}),
				NewContentBoxWithID("performances", "Performances / Press", SizeLarge,
					TextContent{Text: "Add your performances and press mentions here."}),
				NewContentBoxWithID("music", "Music", SizeMedium, EmbedContent{}),
				NewContentBoxWithID("demo", "Demo Reel", SizeLarge,
					TextContent{Text: "Add your demo reel here."}),
			},
		},
		{
			ID:    "about",
			Title: "About",
			Boxes: []ContentBox{
				NewContentBoxWithID("bio", "Bio", SizeMedium, TextContent{Text: "Tell visitors about yourself."}),
				NewContentBoxWithID("experience", "Work Experience", SizeMedium, ExperienceContent{Items: []ExperienceItem{}}),
				NewContentBoxWithID("education", "Education", SizeMedium, EducationContent{Items: []EducationItem{}}),
			},
		},
	}
}
