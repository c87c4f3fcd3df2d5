// Package wallpaper composes album-cover wallpapers.
//
// A Renderer takes an encoded cover, a canvas size and a Mode, builds the
// backdrop the mode asks for (a blurred copy of the cover, a blurred
// predefined image, or a linear or radial gradient derived from the cover's
// palette) and pastes the cover, cropped to an anti-aliased circle, at the
// center:
//
//	r := wallpaper.NewRenderer(wallpaper.WithLogger(logger))
//	res, err := r.Render(wallpaper.Request{
//	    Source: cover,
//	    Width:  1920,
//	    Height: 1080,
//	    Mode:   wallpaper.RadialGradientWithCircle,
//	})
//
// The mode is passed on every call; a Renderer holds no selection of its own.
// Fetching covers, choosing the screen size and applying the result to the
// desktop are left to the caller.
package wallpaper
