package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"plant-store/internal/adminform"
	"plant-store/internal/catalogview"
	"plant-store/internal/domain"

	"github.com/spf13/cobra"
)

var (
	listSearch   string
	listCategory string
	listInStock  bool

	addName        string
	addPrice       string
	addCategories  []string
	addOutOfStock  bool
	addDescription string
	addImage       string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List plants through the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		view := catalogview.NewController(&contextFetcher{ctx: ctx, fetcher: newAPIClient()}, log)
		defer view.Close()

		view.SetSearch(listSearch)
		view.SetCategory(listCategory)
		view.SetInStockOnly(listInStock)
		view.Wait()

		state := view.State()
		out := cmd.OutOrStdout()
		if state.Status == catalogview.Error {
			fmt.Fprintln(out, state.Message())
			return state.Err
		}

		printPlants(out, state.Plants)
		fmt.Fprintln(out, state.Message())
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the distinct plant categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		categories, err := newAPIClient().Categories(ctx)
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a plant through the API",
	Example: `  plantctl add --name "Money Plant" --price 249 --category Indoor --category Hanging
  plantctl add --name Fern --price 99 --category Indoor --image ./fern.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		form := adminform.New()
		form.SetName(addName)
		form.SetPrice(addPrice)
		for _, c := range addCategories {
			form.AddCategory(c)
		}
		form.SetInStock(!addOutOfStock)
		form.SetDescription(addDescription)

		if addImage != "" {
			image, err := readImage(addImage)
			if err != nil {
				return err
			}
			form.SetImage(image)
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		id, err := form.Submit(ctx, newAPIClient())
		if err != nil {
			for field, msg := range form.Errors() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created plant %s\n", id)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Match name or category, case-insensitively")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", domain.AllCategories, "Only plants in this category")
	listCmd.Flags().BoolVar(&listInStock, "in-stock", false, "Only plants in stock")

	addCmd.Flags().StringVar(&addName, "name", "", "Plant name")
	addCmd.Flags().StringVar(&addPrice, "price", "", "Price")
	addCmd.Flags().StringArrayVarP(&addCategories, "category", "c", nil, "Category (repeatable)")
	addCmd.Flags().BoolVar(&addOutOfStock, "out-of-stock", false, "Mark the plant out of stock")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Description")
	addCmd.Flags().StringVar(&addImage, "image", "", "Path to an image to upload")
}

func printPlants(out io.Writer, plants []domain.Plant) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPRICE\tCATEGORIES\tIN STOCK")
	for _, p := range plants {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%t\n", p.Name, p.Price, strings.Join(p.Categories, ", "), p.InStock)
	}
	tw.Flush()
}
