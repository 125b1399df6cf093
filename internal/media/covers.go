package media

import "math/rand"

// covers are the bundled interview cover images served by the frontend.
var covers = []string{
	"/covers/adobe.png",
	"/covers/amazon.png",
	"/covers/facebook.png",
	"/covers/hostinger.png",
	"/covers/pinterest.png",
	"/covers/quora.png",
	"/covers/reddit.png",
	"/covers/skype.png",
	"/covers/spotify.png",
	"/covers/telegram.png",
	"/covers/tiktok.png",
	"/covers/yahoo.png",
}

// RandomCover picks a cover image for a newly created interview.
func RandomCover() string {
	return covers[rand.Intn(len(covers))]
}
