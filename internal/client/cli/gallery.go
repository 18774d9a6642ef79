package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
)

// Gallery lists the locally stored images, newest first.
func (a *App) Gallery(ctx context.Context) error {
	a.visit(services.RouteCards)

	items, err := a.gallery.List(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(items) == 0 {
		printlnFn("No images yet.")
		return nil
	}
	for _, it := range items {
		printGalleryItem(it)
	}
	return nil
}

// Upload reads the files at paths, asks for a shared title and description
// and adds them to the gallery.
func (a *App) Upload(ctx context.Context, paths []string) error {
	a.visit(services.RouteCards)

	files := make([]models.ImageFile, 0, len(paths))
	for _, p := range paths {
		f, err := models.LoadImageFile(p)
		if err != nil {
			return a.report(ctx, err)
		}
		files = append(files, f)
	}
	if err := services.ValidateImages(files); err != nil {
		return a.report(ctx, err)
	}

	title, err := getSimpleText(a.reader, "Title", a.writer())
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description", a.writer())
	if err != nil {
		return err
	}

	added, err := a.gallery.Add(ctx, files, title, description)
	if err != nil {
		return a.report(ctx, err)
	}
	printlnFn(fmt.Sprintf("Added %d image(s).", len(added)))
	return nil
}

// Replace swaps the image content of gallery item id for the file at path.
func (a *App) Replace(ctx context.Context, id, path string) error {
	a.visit(services.RouteCards)

	f, err := models.LoadImageFile(path)
	if err != nil {
		return a.report(ctx, err)
	}
	it, err := a.gallery.Edit(ctx, id, f)
	if err != nil {
		return a.report(ctx, err)
	}
	printlnFn("Image updated.")
	printGalleryItem(it)
	return nil
}

// Remove deletes one gallery item after confirmation.
func (a *App) Remove(ctx context.Context, id string) error {
	a.visit(services.RouteCards)

	if err := a.gallery.Delete(ctx, id, promptConfirmer{reader: a.reader, w: a.writer()}); err != nil {
		return a.report(ctx, err)
	}
	printlnFn("Image removed.")
	return nil
}

// ClearGallery deletes every gallery item after confirmation.
func (a *App) ClearGallery(ctx context.Context) error {
	a.visit(services.RouteCards)

	if err := a.gallery.DeleteAll(ctx, promptConfirmer{reader: a.reader, w: a.writer()}); err != nil {
		return a.report(ctx, err)
	}
	printlnFn("Gallery cleared.")
	return nil
}

// Cart shows the images stored remotely for the signed-in user.
func (a *App) Cart(ctx context.Context) error {
	a.visit(services.RouteCards)

	items, err := a.gallery.RemoteCart(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(items) == 0 {
		printlnFn("Cart is empty.")
		return nil
	}
	for _, it := range items {
		printlnFn(fmt.Sprintf("%s  %s  %s", it.ID, it.Name, shorten(it.URL, 60)))
	}
	return nil
}

func printGalleryItem(it models.GalleryItem) {
	line := fmt.Sprintf("%s  %q  %s  added %s", it.ID, it.Title, it.Name, it.CreatedAt.Format("2006-01-02 15:04"))
	if it.UpdatedAt != nil {
		line += ", updated " + it.UpdatedAt.Format("2006-01-02 15:04")
	}
	printlnFn(line)
	if it.Description != "" {
		printlnFn("    " + it.Description)
	}
}
