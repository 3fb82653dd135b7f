package site

// defaultSites seeds the registry on first run with a curated set of public
// maccms collection APIs. The user owns the file afterwards; re-seeding only
// happens if the file disappears.
func defaultSites() []*Site {
	sites := []*Site{
		{
			ID:      "ruyi",
			Name:    "如意资源",
			BaseURL: "https://cj.rycjapi.com/api.php/provide/vod",
		},
		{
			ID:      "bfzy",
			Name:    "暴风资源",
			BaseURL: "https://bfzyapi.com/api.php/provide/vod",
		},
		{
			ID:      "lzi",
			Name:    "量子资源",
			BaseURL: "https://cj.lziapi.com/api.php/provide/vod",
		},
		{
			ID:      "tyyszy",
			Name:    "天涯资源",
			BaseURL: "https://tyyszy.com/api.php/provide/vod",
		},
		{
			ID:      "ffzy",
			Name:    "非凡资源",
			BaseURL: "http://ffzy5.tv/api.php/provide/vod",
		},
		{
			ID:      "heimuer",
			Name:    "黑木耳资源",
			BaseURL: "https://json.heimuer.xyz/api.php/provide/vod",
		},
	}

	for _, s := range sites {
		s.Enabled = true
		s.fillDefaults()
	}

	return sites
}
