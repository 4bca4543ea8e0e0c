// Package browser launches Chrome through chromedp and exposes the tab as a
// publisher.Page.
//
//	launcher := browser.NewLauncher(cfg, browser.WithLogger(log))
//	session, err := launcher.Launch(ctx)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	if err := session.SetCookies(ctx, cookies); err != nil {
//	    return err
//	}
//	err = pub.Publish(ctx, session, file, caption)
//
// Each Session owns its own browser process and profile, so cookies never
// leak between uploads.
package browser
