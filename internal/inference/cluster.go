package inference

// clusterAverageLinkage partitions n items into k clusters by greedy
// agglomerative merging on a precomputed distance matrix with average
// linkage. Ties break toward the lowest pair indices, so identical input
// always yields an identical partition.
//
// Returned labels are canonical: clusters are numbered by their smallest
// member index, so the cluster containing item 0 is always cluster 0.
func clusterAverageLinkage(dist [][]float64, k int) []int {
	n := len(dist)
	labels := make([]int, n)
	if n == 0 {
		return labels
	}
	if k >= n {
		for i := range labels {
			labels[i] = i
		}
		return labels
	}
	if k < 1 {
		k = 1
	}

	// Clusters stay ordered by their smallest member: merges fold the
	// higher cluster into the lower one.
	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}

	for len(clusters) > k {
		bestA, bestB := 0, 1
		bestDist := averageDistance(dist, clusters[0], clusters[1])
		for a := 0; a < len(clusters); a++ {
			for b := a + 1; b < len(clusters); b++ {
				if a == 0 && b == 1 {
					continue
				}
				if d := averageDistance(dist, clusters[a], clusters[b]); d < bestDist {
					bestDist, bestA, bestB = d, a, b
				}
			}
		}

		clusters[bestA] = append(clusters[bestA], clusters[bestB]...)
		clusters = append(clusters[:bestB], clusters[bestB+1:]...)
	}

	for ci, members := range clusters {
		for _, idx := range members {
			labels[idx] = ci
		}
	}
	return labels
}

// averageDistance is the mean pairwise distance between two clusters.
func averageDistance(dist [][]float64, a, b []int) float64 {
	sum := 0.0
	for _, i := range a {
		for _, j := range b {
			sum += dist[i][j]
		}
	}
	return sum / float64(len(a)*len(b))
}
