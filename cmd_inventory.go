package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/inventory"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

func newInventoryCmd(rt *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Browse and administer the inventory",
	}

	var page, category string
	var asHTML bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cards of a storefront page",
		Long: `Shows the inventory cards of a page. --page takes a page location such as
"/pantry.html" (the landing page shows the first few animals); --category
shows a whole section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := inventory.ResolvePage(page)
			if category != "" {
				pc, err = inventory.ForCategory(category)
			}
			if err != nil {
				return err
			}

			markup, err := rt.loader().Render(cmd.Context(), pc)
			if asHTML {
				rt.printf("%s\n", markup)
				return err
			}
			if err != nil {
				return err
			}
			text, err := inventory.PlainText(markup)
			if err != nil {
				return err
			}
			rt.printf("%s\n", text)
			return nil
		},
	}
	show.Flags().StringVar(&page, "page", "", "Page location, e.g. /habitats.html (default landing page)")
	show.Flags().StringVar(&category, "category", "", "Category: animals, pantry, habitats, den")
	show.Flags().BoolVar(&asHTML, "html", false, "Print card markup instead of text")

	overview := &cobra.Command{
		Use:   "overview",
		Short: "Count unsold items in every section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pages := make([]inventory.PageContext, 0, len(model.Categories))
			for _, c := range model.Categories {
				pc, err := inventory.ForCategory(c.ID)
				if err != nil {
					return err
				}
				pages = append(pages, pc)
			}
			sections, err := rt.loader().LoadAll(cmd.Context(), pages)
			if err != nil {
				return err
			}
			for _, c := range model.Categories {
				rt.printf("%s\t%d\n", c.Label, len(sections[c.ID]))
			}
			return nil
		},
	}

	var maxResults int
	var searchCategory string
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search unsold items by name, variant or category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := rt.loader().Fetch(cmd.Context())
			if err != nil {
				return err
			}
			res, err := inventory.Search(items, strings.Join(args, " "), searchCategory, maxResults)
			if err != nil {
				return err
			}
			if res.Total == 0 {
				rt.printf("No matching items.\n")
				return nil
			}
			for _, it := range res.Items {
				rt.printf("%s\t%s\t%s\t%s\n", it.ID, itemTitle(it), model.FormatMoney(model.ToCents(it.Price)), it.Status)
			}
			return nil
		},
	}
	search.Flags().IntVar(&maxResults, "max", 10, "Maximum results (up to 20)")
	search.Flags().StringVar(&searchCategory, "category", "", "Only search this category")

	var item model.InventoryItem
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the catalog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rt.catalog()
			if err != nil {
				return err
			}
			added, err := cat.Add(item)
			if err != nil {
				return err
			}
			rt.printf("Added %s (%s)\n", itemTitle(added), added.ID)
			return nil
		},
	}
	add.Flags().StringVar(&item.ID, "id", "", "Item id (generated when empty)")
	add.Flags().StringVar(&item.Name, "name", "", "Item name")
	add.Flags().StringVar(&item.Category, "category", "", "Category: animals, pantry, habitats, den")
	add.Flags().StringVar(&item.Variant, "variant", "", "Variant or morph")
	add.Flags().Float64Var(&item.Price, "price", 0, "Price in dollars")
	add.Flags().IntVar(&item.Quantity, "qty", 1, "Quantity in stock")
	add.Flags().StringVar(&item.Image, "image", "", "Image path")
	add.Flags().StringVar(&item.Status, "status", model.StatusAvailable, "available, reserved or sold")
	add.MarkFlagRequired("name")
	add.MarkFlagRequired("category")

	sell := &cobra.Command{
		Use:   "sell [id]",
		Short: "Mark an item as sold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rt.catalog()
			if err != nil {
				return err
			}
			if err := cat.MarkSold(args[0]); err != nil {
				return err
			}
			rt.printf("Marked %s as sold\n", args[0])
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an item from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rt.catalog()
			if err != nil {
				return err
			}
			if err := cat.Delete(args[0]); err != nil {
				return err
			}
			rt.printf("Deleted %s\n", args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import [file.xlsx]",
		Short: "Import catalog rows from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open spreadsheet: %w", err)
			}
			defer f.Close()

			cat, err := rt.catalog()
			if err != nil {
				return err
			}
			added, err := cat.Import(f)
			if err != nil {
				return err
			}
			for _, it := range added {
				rt.printf("%s\t%s\n", it.ID, itemTitle(it))
			}
			rt.printf("Imported %d items\n", len(added))
			return nil
		},
	}

	cmd.AddCommand(show, overview, search, add, sell, del, imp)
	return cmd
}

func itemTitle(it model.InventoryItem) string {
	if it.Variant == "" {
		return it.Name
	}
	return it.Name + " (" + it.Variant + ")"
}
